package main

import "fmt"

// Run executes the extensions command.
func (c *ExtensionsCmd) Run(deps *Dependencies) error {
	exts, err := deps.extensions()
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, exts.String())
	return nil
}

// Run executes the doctypes command.
func (c *DoctypesCmd) Run(deps *Dependencies) error {
	for _, name := range deps.Doctypes.Names() {
		exts, _ := deps.Doctypes.Extensions([]string{name}, nil)
		fmt.Fprintf(deps.Stdout, "%s: %s\n", name, exts.String())
	}
	return nil
}
