// Command token prints a bearer token accepted by the server. It reads the
// same configuration as the server (-s secret, -role, -c file) plus -uid and
// -ttl.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/assetvault/internal/flagx"
	"github.com/dmitrijs2005/assetvault/internal/server/auth"
	"github.com/dmitrijs2005/assetvault/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("token", flag.ExitOnError)
	uid := fs.String("uid", "admin", "user id stored in the token")
	ttl := fs.Duration("ttl", 12*time.Hour, "token validity")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-uid", "-ttl"}))

	tok, err := auth.GenerateToken(*uid, cfg.RequiredRole, []byte(cfg.SecretKey), *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(tok)
}
