package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crypto-guardian/custody"
	custodyd "github.com/crypto-guardian/custody/cmd/custodyd/app"
	"github.com/crypto-guardian/custody/commands"
	"github.com/crypto-guardian/custody/commands/server"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custodyd")
	varHome = pflag.String(flagHome, defaultHome, "directory to store files under")

	// Everything after the command name belongs to the command.
	pflag.CommandLine.SetInterspersed(false)
	pflag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("custodyd")
	fmt.Println("          Dead man's switch custody chain node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check the app_state of genesis files")
	fmt.Println("testgen   Write example json and binary encodings")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  --home string
        directory to store files under (default "$HOME/.custodyd")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "custody")

	pflag.Parse()
	if pflag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := pflag.Arg(0)
	rest := pflag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(custodyd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(custodyd.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(custodyd.Initializers(), rest)
	case "testgen":
		err = commands.TestGenCmd(custodyd.Examples(), rest)
	case "version":
		fmt.Println(custody.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
