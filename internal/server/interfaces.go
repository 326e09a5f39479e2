package server

// Server is the verifier process: the HTTP ceremony API, the gRPC health
// endpoint and any background jobs registered with [WithBackground].
type Server interface {
	// RunServer serves until the process receives a termination signal.
	RunServer()

	// Shutdown stops both transports. Jobs are cancelled by RunServer.
	Shutdown()
}
