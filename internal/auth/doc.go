// Package auth keeps the user accounts of the service in a JSON file.
//
// Passwords are stored as bcrypt hashes. Files written by older versions of
// the service hold plaintext passwords; those are accepted once and
// replaced by a hash on the first successful login.
package auth
