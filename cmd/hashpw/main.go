// Command hashpw prints the bcrypt hash of a password read from stdin, for
// use as ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iliyamo/gig-scheduler/internal/config"
	"github.com/iliyamo/gig-scheduler/internal/utils"
)

func main() {
	_ = godotenv.Load()

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("read password: %v", err)
	}
	hash, err := utils.HashPassword(strings.TrimRight(line, "\r\n"), config.LoadBcryptCost())
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hash)
}
