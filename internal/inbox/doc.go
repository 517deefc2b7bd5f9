// Package inbox holds the admin inbox core: the session guard, the login
// controller and the inbox controller. It talks to persistence and
// authentication only through the Store interface, and every operation takes
// the caller's Session explicitly.
package inbox
