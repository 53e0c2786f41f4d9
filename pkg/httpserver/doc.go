// Package httpserver runs an http.Handler with sane timeouts and graceful shutdown.
//
// Run blocks until the context is cancelled or the listener fails. Cancel the
// context from a signal handler to stop the server:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err // wraps ErrStart
//	}
//
// Options panic on invalid values. Shutdown errors wrap ErrShutdown.
package httpserver
