// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client is the application context of one signed-in process.
//
// [App] ties the key service, the session manager, the credential ceremony
// driver and the private journal together behind the operations a user
// interface calls: register, login (by password or by credential), logout,
// encryption unlock, sealing and opening data, and session control. It is
// constructed once per process and passed to whatever needs it.
//
// Every way a session can end (logout, idle timeout, suspicious activity,
// refresh failure) drops the encryption key from memory.
package client
