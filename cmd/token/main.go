// Command token mints a bearer token for a telemetry logger or operator.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/perf-timing-backend-go/internal/config"
	"github.com/jengzang/perf-timing-backend-go/internal/middleware"
)

func main() {
	subject := flag.String("sub", "logger", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	token, err := middleware.IssueToken(cfg.JWTSecret, *subject, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}
