// Package bootstrap provides application initialization and lifecycle management.
// Startup is strictly sequential: configuration, service registration, store
// migration (and seeding in Development), then pipeline assembly.
//
// Usage:
//
//	app, err := bootstrap.NewApp(bootstrap.Options{ConfigPath: path})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Wait for shutdown signal
//	app.WaitForShutdown()
//	app.Shutdown(ctx)
package bootstrap
