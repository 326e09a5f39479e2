// Package server runs the credential verifier's transports.
//
// The HTTP listener carries the ceremony API and the gRPC listener carries
// the health service. Both stop together on SIGTERM, SIGINT or SIGQUIT.
package server
