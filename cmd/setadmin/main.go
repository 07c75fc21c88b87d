package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/gamehive/backend/config"
	"github.com/gamehive/backend/models"
)

// Promotes (or demotes) a user by username. Run against the same
// environment as the server so it reaches the same database.
func main() {
	username := flag.String("username", "", "username of the account to change")
	demote := flag.Bool("demote", false, "set the role back to user instead of admin")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: setadmin -username <name> [-demote]")
		os.Exit(2)
	}

	config.Load()
	db := config.InitDatabase(models.All()...)

	role := models.RoleAdmin
	if *demote {
		role = models.RoleUser
	}

	var user models.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Fprintf(os.Stderr, "user %q not found\n", *username)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("user %q already has role %s\n", user.Username, role)
		return
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("user %q is now %s\n", user.Username, role)
}
