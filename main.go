package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/auth"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/bootstrap"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/config"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/transfer"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/version"

	"github.com/spf13/afero"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	var err error
	switch args[0] {
	case "server":
		err = runServer()
	case "upload":
		err = runUpload(args[1:])
	case "download":
		err = runDownload(args[1:])
	case "hash-password":
		err = runHashPassword(args[1:])
	case "version":
		version.PrintVersion()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Attachment and access grant service for apps and prompts")
	fmt.Println("\nCommands:")
	fmt.Println("  server           Start the API server")
	fmt.Println("  upload           Upload a file as an attachment")
	fmt.Println("  download         Download an attachment by storage path")
	fmt.Println("  hash-password    Print a bcrypt hash for an access grant password")
	fmt.Println("  version          Show version information")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println("\nClient environment:")
	fmt.Println("  AIHUB_API_URL, AIHUB_USER_ID or AIHUB_GRANT_TOKEN,")
	fmt.Println("  GATEWAY_AUTH_MODE, GATEWAY_AUTH_SECRET")
}

func runServer() error {
	return bootstrap.Run(context.Background(), config.Load())
}

// commandContext is cancelled on SIGINT or SIGTERM
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newAPIClient(cfg *config.ClientConfig) (*transfer.APIClient, error) {
	if cfg.UserID == "" && cfg.GrantToken == "" {
		return nil, errors.New("set AIHUB_USER_ID or AIHUB_GRANT_TOKEN")
	}
	return transfer.NewAPIClient(transfer.APIClientConfig{
		BaseURL:       cfg.APIURL,
		UserID:        cfg.UserID,
		GrantToken:    cfg.GrantToken,
		UserIDHeader:  cfg.UserIDHeader,
		GatewayMode:   cfg.GatewayAuthMode,
		GatewaySecret: cfg.GatewayAuthSecret,
		Timeout:       cfg.Timeout,
	})
}

func logTransition(from, to transfer.State) {
	log.Printf("[Transfer] %s -> %s", from, to)
}

func runUpload(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	targetType := fs.String("target-type", string(models.TargetApp), "Target type: app or prompt")
	targetID := fs.String("target-id", "", "Target id (required)")
	contentType := fs.String("content-type", "", "Content type (detected when empty)")
	verbose := fs.Bool("verbose", false, "Log state transitions")
	_ = fs.Parse(args)

	if fs.NArg() != 1 || *targetID == "" {
		return errors.New("usage: upload -target-id ID [-target-type app|prompt] FILE")
	}
	tt, err := models.ParseTargetType(*targetType)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	body := bufio.NewReader(f)
	ct := *contentType
	if ct == "" {
		ct, err = detectContentType(path, body)
		if err != nil {
			return err
		}
	}

	api, err := newAPIClient(config.LoadClient())
	if err != nil {
		return err
	}
	opts := []transfer.Option{}
	if *verbose {
		opts = append(opts, transfer.WithObserver(logTransition))
	}
	orchestrator := transfer.NewOrchestrator(api, opts...)

	ctx, cancel := commandContext()
	defer cancel()

	attachment, result, err := orchestrator.Upload(ctx, transfer.File{
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        info.Size(),
		Body:        body,
	}, transfer.Target{Type: tt, ID: *targetID})
	if err != nil {
		if result.State == transfer.StateOrphanedBlob {
			fmt.Fprintf(os.Stderr, "Uploaded bytes at %s were not recorded\n", result.StoragePath)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(attachment)
}

// detectContentType prefers the file extension and falls back to sniffing
func detectContentType(path string, r *bufio.Reader) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct, nil
	}
	head, err := r.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	return http.DetectContentType(head), nil
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	targetType := fs.String("target-type", string(models.TargetApp), "Target type: app or prompt")
	output := fs.String("o", ".", "Directory to save into")
	name := fs.String("name", "", "File name to save as (defaults to the storage path base)")
	fallback := fs.String("fallback", "", "Link to open if the download cannot proceed")
	verbose := fs.Bool("verbose", false, "Log state transitions")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: download [-target-type app|prompt] [-o DIR] [-fallback URL] STORAGE_PATH")
	}
	tt, err := models.ParseTargetType(*targetType)
	if err != nil {
		return err
	}

	storagePath := fs.Arg(0)
	filename := *name
	if filename == "" {
		filename = filepath.Base(storagePath)
	}

	api, err := newAPIClient(config.LoadClient())
	if err != nil {
		return err
	}
	opts := []transfer.Option{
		transfer.WithSaver(transfer.NewFileSaver(afero.NewOsFs(), *output)),
		transfer.WithOpener(transfer.PrintOpener{W: os.Stdout}),
	}
	if *verbose {
		opts = append(opts, transfer.WithObserver(logTransition))
	}
	orchestrator := transfer.NewOrchestrator(api, opts...)

	ctx, cancel := commandContext()
	defer cancel()

	result, err := orchestrator.Download(ctx, storagePath, filename, tt, *fallback)
	if err != nil {
		return err
	}
	if result.State == transfer.StateSaved {
		fmt.Printf("Saved %s (%d bytes)\n", filepath.Join(*output, filename), result.Bytes)
	}
	return nil
}

func runHashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	password := fs.String("password", "", "Password to hash (read from stdin when empty)")
	_ = fs.Parse(args)

	pw := *password
	if pw == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(pw, config.LoadClient().BcryptCost)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
