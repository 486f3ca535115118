// Command vodirctl is the operator CLI: schema migration and admin accounts.
package main

import "vo-directory/cmd/vodirctl/commands"

func main() {
	commands.Execute()
}
