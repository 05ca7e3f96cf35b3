// Package bootstrap runs a service through its lifecycle: build the logger
// from typed config, start registered components in order, run configure
// callbacks, block until SIGINT/SIGTERM and stop everything in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(dbComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return a.RegisterComponent(serverComponent)
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
