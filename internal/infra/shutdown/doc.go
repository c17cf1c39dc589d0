// Package shutdown coordinates graceful process termination.
//
// Components register hooks with OnShutdown; Wait blocks until SIGINT,
// SIGTERM, a call to Trigger or cancellation of its context, then runs the
// hooks in reverse registration order under a shared timeout.
//
//	h := shutdown.NewHandler(15 * time.Second)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
