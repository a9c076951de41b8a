// jkinsights generates expense-anomaly insight workbooks and serves them.
//
// Usage:
//
//	jkinsights serve
//	jkinsights run --insights PJPA27,PJPA33 [--data Data] [--out Output]
//	jkinsights list
//	jkinsights users list
//	jkinsights users add --username alice --password secret --role reviewer
//
// Configuration comes from config.yaml and JK_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
