// Package redis connects to the optional Redis server that stores shared form
// schemas and reports its health.
//
//	var cfg redis.Config
//	_ = config.Load(&cfg)
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    if err != nil {
//	        return err // wraps ErrRedisNotReady or ErrFailedToParseRedisConnString
//	    }
//	    src := form.NewRedisSource(client, "")
//	    check := redis.Healthcheck(client)
//	}
package redis
