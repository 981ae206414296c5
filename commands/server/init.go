package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/crypto-guardian/custody/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DirConfig is the subdirectory of home holding tendermint config.
	DirConfig = "config"
	// GenesisFile is the name of the tendermint genesis file.
	GenesisFile = "genesis.json"

	flagForce = "force"
)

// GenOptions can parse command line arguments to generate default app_state
// for the genesis file. This is application specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't want to
// parse, so we just grab it into a raw object format, so we can add one
// line.
type GenesisDoc map[string]json.RawMessage

// InitCmd writes the generated app_state into the genesis file created by
// `tendermint init`. An existing app_state is only replaced with --force.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	fs := pflag.NewFlagSet("init", pflag.ContinueOnError)
	force := fs.BoolP(flagForce, "f", false, "overwrite existing app_state")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, DirConfig, GenesisFile)
	if !fileExists(genFile) {
		return errors.Wrapf(errors.ErrNotFound, "%s, run `tendermint init` first", genFile)
	}

	options, err := gen(fs.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, *force); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrap(errors.ErrDuplicate, "genesis already contains app_state, use --force to overwrite")
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
