// Command hashpw reads a password from stdin and prints the bcrypt hash to
// store in a user's password_hash field.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mci/portal-api/internal/core/service"
)

func main() {
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}

	hash, err := service.HashPassword(strings.TrimRight(line, "\r\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
