package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/docsmith/docsmith/internal/config"
)

// FmtCmd rewrites the configuration file in canonical form: stable key
// order, two-space indent, normalized nav entries. Order of nav entries
// and markdown extensions is preserved.
type FmtCmd struct {
	Check bool `help:"Exit nonzero when the file is not canonically formatted, without rewriting"`
}

func (f *FmtCmd) Run(_ *Global, root *CLI) error {
	raw, err := os.ReadFile(root.Config)
	if err != nil {
		return err
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return err
	}
	formatted, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if bytes.Equal(raw, formatted) {
		return nil
	}
	if f.Check {
		return fmt.Errorf("%s is not canonically formatted", root.Config)
	}

	if err := config.Save(cfg, root.Config); err != nil {
		return err
	}
	fmt.Printf("Reformatted %s\n", root.Config)
	return nil
}
