package main

import "fmt"

// lockTest flips the kill-switch on a mock test. Locking force-submits any
// attempt whose session is live in the API process.
func (cli *commandLine) lockTest(id string, locked bool) error {
	t, err := cli.exmSvc.SetLocked(id, locked)
	if err != nil {
		return err
	}
	state := "unlocked"
	if t.IsLocked {
		state = "locked"
	}
	fmt.Printf("test %q (%s) is now %s\n", t.Title, t.ID, state)
	return nil
}
