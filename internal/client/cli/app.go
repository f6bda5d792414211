// Package cli implements provctl, a command-line front end that provisions a
// device through the gRPC API and prints the download link.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/client/client"
	"github.com/dmitrijs2005/deviceprov/internal/client/config"
	"github.com/dmitrijs2005/deviceprov/internal/filex"
	"github.com/dmitrijs2005/deviceprov/internal/flagx"
	"github.com/dmitrijs2005/deviceprov/internal/netx"
	pb "github.com/dmitrijs2005/deviceprov/internal/proto"
	"golang.org/x/term"
)

// Provisioner is the part of the gRPC client the CLI needs.
type Provisioner interface {
	Provision(ctx context.Context, uid, platform string) (*pb.ProvisionResponse, error)
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config *config.Config
	client Provisioner
	stdout io.Writer
	stderr io.Writer

	// httpClient fetches the artifact when -d is given.
	httpClient *http.Client
}

func NewApp(cfg *config.Config, c Provisioner, stdout, stderr io.Writer) *App {
	return &App{config: cfg, client: c, stdout: stdout, stderr: stderr, httpClient: http.DefaultClient}
}

type successOutput struct {
	DownloadURL string `json:"download_url"`
	DeviceID    string `json:"device_id,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	SavedTo     string `json:"saved_to,omitempty"`
}

type errorOutput struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Run provisions one device using -u and -p from args and returns the exit
// code: 0 on success, 1 on a provisioning or download failure, 2 on bad
// usage. With -d the artifact is also saved as <dir>/<device_id>.bin, or
// <dir>/device.bin when the server did not report a device id.
func (a *App) Run(ctx context.Context, args []string) int {
	var uid, platform, dir string

	fs := flag.NewFlagSet("provctl", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&uid, "u", "", "user id")
	fs.StringVar(&platform, "p", "", "target platform: windows, macos or linux")
	fs.StringVar(&dir, "d", "", "download the device binary into this directory")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-u", "-p", "-d"})); err != nil {
		return 2
	}
	if uid == "" || platform == "" {
		fmt.Fprintln(a.stderr, "usage: provctl [-a addr] [-t seconds] [-o auto|json|text] [-d dir] -u <uid> -p <platform>")
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	resp, err := a.client.Provision(ctx, uid, platform)
	if err != nil {
		a.printError(err)
		return 1
	}

	var saved string
	if dir != "" {
		saved, err = a.download(ctx, dir, resp)
		if err != nil {
			a.printError(err)
			return 1
		}
	}

	a.printResult(resp, saved)
	return 0
}

func (a *App) download(ctx context.Context, dir string, resp *pb.ProvisionResponse) (string, error) {
	name := "device.bin"
	if resp.DeviceID != "" {
		name = resp.DeviceID + ".bin"
	}
	f, err := filex.CreateInDir(dir, name)
	if err != nil {
		return "", err
	}

	_, err = netx.DownloadPresignedURL(ctx, a.httpClient, resp.DownloadURL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return filepath.Clean(f.Name()), nil
}

func (a *App) jsonOutput() bool {
	switch a.config.Output {
	case config.OutputJSON:
		return true
	case config.OutputText:
		return false
	}
	f, ok := a.stdout.(*os.File)
	return !ok || !isTerminal(int(f.Fd()))
}

func (a *App) printResult(resp *pb.ProvisionResponse, saved string) {
	out := successOutput{DeviceID: resp.DeviceID, DownloadURL: resp.DownloadURL, SavedTo: saved}
	if !resp.ExpiresAt.IsZero() {
		out.ExpiresAt = resp.ExpiresAt.Format(time.RFC3339)
	}

	if a.jsonOutput() {
		_ = json.NewEncoder(a.stdout).Encode(out)
		return
	}

	if out.DeviceID != "" {
		fmt.Fprintf(a.stdout, "Device %s provisioned.\n", out.DeviceID)
	} else {
		fmt.Fprintln(a.stdout, "Device provisioned.")
	}
	if out.ExpiresAt != "" {
		fmt.Fprintf(a.stdout, "Download link (valid until %s):\n", resp.ExpiresAt.Local().Format(time.Kitchen))
	} else {
		fmt.Fprintln(a.stdout, "Download link:")
	}
	fmt.Fprintln(a.stdout, out.DownloadURL)
	if saved != "" {
		fmt.Fprintf(a.stdout, "Saved to %s\n", saved)
	}
}

func (a *App) printError(err error) {
	out := errorOutput{Error: err.Error()}

	var pe *client.ProvisionError
	if errors.As(err, &pe) {
		out = errorOutput{Error: pe.Message, Detail: pe.Detail}
	}

	if a.jsonOutput() {
		_ = json.NewEncoder(a.stdout).Encode(out)
		return
	}

	if out.Detail != "" {
		fmt.Fprintf(a.stderr, "Error: %s (%s)\n", out.Error, out.Detail)
		return
	}
	fmt.Fprintf(a.stderr, "Error: %s\n", out.Error)
}
