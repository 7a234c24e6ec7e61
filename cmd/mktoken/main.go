package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"point-arena/internal/service"

	"github.com/joho/godotenv"
)

// mktoken issues a signed bearer token for a subject. Handy for local
// testing and for bootstrapping the first admin.
func main() {
	subject := flag.String("subject", "", "token subject (required)")
	roles := flag.String("roles", "", "comma-separated role claims, e.g. admin")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}

	_ = godotenv.Load()
	service.InitJWT()

	var roleList []string
	if *roles != "" {
		roleList = strings.Split(*roles, ",")
	}

	token, err := service.GenerateJWT(*subject, roleList)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println(token)
}
