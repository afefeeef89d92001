package nearest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glidermatch/argo"
	"glidermatch/erddap"
	"glidermatch/glider"
	"glidermatch/smhi"
	"glidermatch/utils"
)

// StationConfig searches a SHARKweb export for the station visit nearest
// to a glider mission.
type StationConfig struct {
	DatasetID string       `arg:"positional" help:"glider dataset id on the ERDDAP server"`
	File      string       `arg:"-f" help:"read the mission from a local NetCDF file instead of the server"`
	Sharkweb  string       `arg:"-s,--sharkweb" required:"true" help:"SHARKweb export file with the station samples"`
	Separator string       `arg:"--separator" default:"tab" help:"column separator of the export: tab, comma or semicolon"`
	LonWindow float64      `arg:"--lon-window" default:"1" help:"longitude half width of the search box in degrees"`
	LatWindow float64      `arg:"--lat-window" default:"0.5" help:"latitude half width of the search box in degrees"`
	Window    utils.Period `arg:"-w,--time-window" default:"P10D" help:"time half width as an ISO-8601 period"`
	MinDepth  float64      `arg:"--min-depth" default:"80" help:"keep only station visits with water depth greater than this many meters"`
	Server    string       `arg:"--server,env:VOTO_ERDDAP_URL" help:"ERDDAP server base URL"`
}

func (StationConfig) Description() string {
	return `Find the SHARKweb station visit nearest to the mean position and time of a
glider mission. On a match, all sample rows of that visit are counted and the
offset between glider and station is reported.`
}

func (config *StationConfig) Execute() {
	ds, err := loadMission(config.DatasetID, config.File, config.Server)
	if err != nil {
		fmt.Println(err)
		return
	}

	sep, err := utils.Separator(config.Separator)
	if err != nil {
		fmt.Println(err)
		return
	}
	obs, err := smhi.ReadObservations(config.Sharkweb, sep)
	if err != nil {
		fmt.Println(err)
		return
	}

	opt := StationOptions{
		Window:   Window{Lon: config.LonWindow, Lat: config.LatWindow, Time: config.Window.Duration()},
		MinDepth: config.MinDepth,
	}
	match, err := NearestStation(obs, ds, opt)
	if errors.Is(err, ErrNoMatch) {
		fmt.Println("No SMHI profiles found within tolerances")
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(match.Description())
	fmt.Printf("Visit %s at station %s on %s: %d sample rows\n",
		match.VisitID, match.Visit.StationName, match.Visit.Date.Format(time.DateOnly), len(match.Rows))
}

// FloatConfig searches the Argo array for the profile nearest to a glider
// mission.
type FloatConfig struct {
	DatasetID  string       `arg:"positional" help:"glider dataset id on the ERDDAP server"`
	File       string       `arg:"-f" help:"read the mission from a local NetCDF file instead of the server"`
	LonWindow  float64      `arg:"--lon-window" default:"1" help:"longitude half width of the search box in degrees"`
	LatWindow  float64      `arg:"--lat-window" default:"0.5" help:"latitude half width of the search box in degrees"`
	Window     utils.Period `arg:"-w,--time-window" default:"P7D" help:"time half width as an ISO-8601 period"`
	Server     string       `arg:"--server,env:VOTO_ERDDAP_URL" help:"ERDDAP server base URL"`
	ArgoServer string       `arg:"--argo-server,env:ARGO_ERDDAP_URL" help:"ERDDAP server hosting the ArgoFloats dataset"`
}

func (FloatConfig) Description() string {
	return `Find the Argo float profile nearest to the mean position and time of a
glider mission. The search box spans the windows around the mission mean and
pressures down to the mission's deepest reading.`
}

func (config *FloatConfig) Execute() {
	ds, err := loadMission(config.DatasetID, config.File, config.Server)
	if err != nil {
		fmt.Println(err)
		return
	}

	opt := FloatOptions{
		Window: Window{Lon: config.LonWindow, Lat: config.LatWindow, Time: config.Window.Duration()},
	}
	match, err := NearestFloat(context.TODO(), argo.NewFetcher(config.ArgoServer), ds, opt)
	if errors.Is(err, ErrNoMatch) {
		fmt.Println("No floats found within tolerances")
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(match.Description())
	p := match.Profile
	fmt.Printf("Float %s cycle %d at (%.3f, %.3f), %d levels, surfaced %s\n",
		p.Platform, p.Cycle, p.Longitude, p.Latitude, len(p.Levels), p.Time.UTC().Format(time.RFC3339))
}

// loadMission reads the glider dataset either from a local NetCDF file or
// from the ERDDAP server.
func loadMission(datasetID, file, server string) (*glider.Dataset, error) {
	if file != "" {
		return glider.ReadNetCDF(file)
	}
	if datasetID == "" {
		return nil, errors.New("a dataset id or a --file path is required")
	}
	return erddap.New(server).FetchDataset(context.TODO(), datasetID, nil, nil)
}
