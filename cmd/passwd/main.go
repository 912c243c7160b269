// Command passwd reads a password from the terminal and prints its bcrypt
// hash using the server's configured cost (-b / BCRYPT_SALT_ROUNDS).
package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/passwd"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	if err := passwd.Run(os.Stderr, os.Stdout, auth.NewHasher(cfg.BcryptCost)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
