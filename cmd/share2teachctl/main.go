// share2teachctl is the operator CLI for a Share2Teach deployment.
//
// Usage:
//
//	# Apply the database schema
//	share2teachctl migrate
//
//	# Create an admin account, or promote an existing account to admin
//	share2teachctl create-admin --email admin@example.com --password s3cret!
package main

func main() {
	Execute()
}
