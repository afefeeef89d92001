package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"glidermatch/erddap"
	"glidermatch/nearest"
)

type CmdArgs struct {
	Datasets *erddap.DatasetsConfig `arg:"subcommand" help:"List glider dataset ids on the server"`
	Download *erddap.DownloadConfig `arg:"subcommand" help:"Download datasets, caching delayed mode missions on disk"`
	Meta     *erddap.MetaConfig     `arg:"subcommand" help:"Show global attributes and recent rows of a dataset"`
	Station  *nearest.StationConfig `arg:"subcommand" help:"Find the SHARKweb station visit nearest to a mission"`
	Float    *nearest.FloatConfig   `arg:"subcommand" help:"Find the Argo float profile nearest to a mission"`
}

func (CmdArgs) Description() string {
	return "Fetch glider missions from ERDDAP and cross reference them against SHARKweb stations and Argo floats."
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// The server URLs and the cache directory can be set via a .env file:
	//   - "VOTO_ERDDAP_URL"
	//   - "ARGO_ERDDAP_URL"
	//   - "GLIDER_CACHE_DIR"
	// Loaded before parsing so the env tags on the flags pick them up.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println(err)
		return
	}

	args := CmdArgs{}
	parser := arg.MustParse(&args)

	switch {
	case args.Datasets != nil:
		args.Datasets.Execute()
	case args.Download != nil:
		args.Download.Execute()
	case args.Meta != nil:
		args.Meta.Execute()
	case args.Station != nil:
		args.Station.Execute()
	case args.Float != nil:
		args.Float.Execute()
	default:
		fmt.Println("Error: passing a subcommand is required.")
		fmt.Println()
		parser.WriteHelp(os.Stdout)
	}
}
