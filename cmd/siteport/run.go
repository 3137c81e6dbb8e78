package main

// Run executes the run command: a harvest followed by a load of its
// manifest.
func (c *RunCmd) Run(deps *Dependencies) error {
	manifest, err := runHarvest(deps)
	if err != nil {
		return err
	}
	return runLoad(deps, manifest, c.loadOptions())
}
