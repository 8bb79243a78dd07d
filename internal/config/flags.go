package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// RegionPrefixes is a flag.Value holding "region:prefix" pairs separated by
// commas, e.g. "dhaka:30,sylhet:60".
type RegionPrefixes map[string]int

// ParseFlags parses configuration flags from args on a dedicated flag set,
// so repeated calls do not collide with the global command line.
//
// Flags:
//
//	-a backup receiver address in format [host]:[port]
//	-d receiver database DSN
//	-l local SQLite database path
//	-b remote backup endpoint URL
//	-backup-path receiver route for backup submissions
//	-c/-config json file path with configs
//	-request-timeout receiver request timeout (e.g., "10s")
//	-adapter-timeout backup submission timeout (e.g., "15s")
//	-sync-interval background sync period (e.g., "5m")
//	-id-strategy record identifier strategy: uuid or region
//	-id-max-attempts region allocator redraw budget
//	-region-prefixes region prefix table, e.g. "dhaka:30,sylhet:60"
//	-version application version
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		serverAddress   NetAddress
		regionPrefixes  = RegionPrefixes{}
		databaseDSN     string
		localPath       string
		backupURL       string
		backupPath      string
		jsonConfigPath  string
		requestTimeout  time.Duration
		adapterTimeout  time.Duration
		syncInterval    time.Duration
		idStrategy      string
		idMaxAttempts   int
		applicationVers string
	)

	fs := flag.NewFlagSet("climate-keeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&regionPrefixes, "region-prefixes", "Region prefix table region:prefix,...")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localPath, "l", "", "Local SQLite database path")
	fs.StringVar(&backupURL, "b", "", "Remote backup endpoint URL")
	fs.StringVar(&backupPath, "backup-path", "", "Receiver backup route")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Backup submission timeout (e.g., 15s)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background sync period (e.g., 5m)")
	fs.StringVar(&idStrategy, "id-strategy", "", "Record identifier strategy: uuid or region")
	fs.IntVar(&idMaxAttempts, "id-max-attempts", 0, "Region allocator redraw budget")
	fs.StringVar(&applicationVers, "version", "", "Application version")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:       applicationVers,
			IDStrategy:    idStrategy,
			IDMaxAttempts: idMaxAttempts,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{Path: localPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			BackupPath:     backupPath,
		},
		Adapter: Adapter{
			BackupURL:      backupURL,
			RequestTimeout: adapterTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
	if len(regionPrefixes) > 0 {
		cfg.App.RegionPrefixes = regionPrefixes
	}

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// String renders the table sorted by region name.
func (r *RegionPrefixes) String() string {
	if r == nil || len(*r) == 0 {
		return ""
	}
	names := make([]string, 0, len(*r))
	for name := range *r {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+":"+strconv.Itoa((*r)[name]))
	}
	return strings.Join(parts, ",")
}

// Set parses "region:prefix" pairs. Region names are lower-cased.
func (r *RegionPrefixes) Set(s string) error {
	if *r == nil {
		*r = RegionPrefixes{}
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("need region prefix in a form `region:prefix`, got %q", pair)
		}
		prefix, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || prefix < 0 {
			return fmt.Errorf("region prefix for %q must be a non-negative integer", name)
		}
		(*r)[strings.ToLower(strings.TrimSpace(name))] = prefix
	}
	return nil
}
