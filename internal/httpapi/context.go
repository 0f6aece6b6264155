package httpapi

import (
	"context"
)

// serverBaseCtx is canceled on process shutdown so in-flight handlers stop
// promptly. It stays Background until serve installs a real one.
var serverBaseCtx = context.Background()

// SetBaseContext installs the shutdown context handlers derive from. A nil
// ctx resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts yields a context done as soon as either parent is. Callers
// must invoke the cancel func when the handler returns, or the watching
// goroutine leaks.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
