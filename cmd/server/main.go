// cmd/server is the daemon of spec.md §6: it owns the table catalog, the
// B-trees beneath it, and the single HTTP endpoint clients talk to.
//
// The command tree (serve/backup/restore subcommands) is grounded on
// untoldecay-BeadsLog/cmd/bd's cobra.Command{Use, Short, RunE} shape; the
// port-check and TLS-listener setup carries over the idiom of an
// earlier raw-TCP server entry point, generalized from a bespoke
// self-signed certificate manager to an operator-supplied cert/key pair
// via internal/config since there is no user/session layer in this spec.
package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/briarql/briarql/internal/backup"
	"github.com/briarql/briarql/internal/catalog"
	"github.com/briarql/briarql/internal/config"
	"github.com/briarql/briarql/internal/dblog"
	"github.com/briarql/briarql/internal/httpapi"
)

var (
	dataDir    string
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "briarql-server",
		Short: "A SQL-speaking key-value database server",
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "directory holding the catalog and table storage")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: <data-dir>/config.toml)")

	root.AddCommand(serveCmd())
	root.AddCommand(backupCmd())
	root.AddCommand(backupListCmd())
	root.AddCommand(restoreCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() error {
	return config.Initialize(dataDir, configPath)
}

func serveCmd() *cobra.Command {
	var listenAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				config.SetFlagOverride("listen_addr", listenAddr)
			}
			return runServe()
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address, e.g. :8080 (default: config listen_addr)")
	return cmd
}

func runServe() error {
	checkPortInUse(config.ListenAddr())

	logger := dblog.New(config.LogFile(), config.LogMaxMB())

	c, err := catalog.Open(config.DataDir(), config.Degree())
	if err != nil {
		return err
	}
	executor := catalog.NewExecutor(c)

	lockPath := filepath.Join(config.DataDir(), "briarql.lock")
	server, err := httpapi.New(executor, logger, lockPath)
	if err != nil {
		return err
	}
	defer server.Close()

	listener, err := net.Listen("tcp", config.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", config.ListenAddr(), err)
	}

	if config.TLSCert() != "" && config.TLSKey() != "" {
		cert, err := tls.LoadX509KeyPair(config.TLSCert(), config.TLSKey())
		if err != nil {
			return fmt.Errorf("load TLS keypair: %w", err)
		}
		listener = tls.NewListener(listener, &tls.Config{Certificates: []tls.Certificate{cert}})
		logger.Printf("briarql server listening on %s (TLS enabled, data dir: %s)", config.ListenAddr(), config.DataDir())
	} else {
		logger.Printf("briarql server listening on %s (data dir: %s)", config.ListenAddr(), config.DataDir())
	}

	return (&http.Server{Handler: server.Handler()}).Serve(listener)
}

// checkPortInUse mirrors a common pre-listen diagnostic: a
// best-effort dial to warn the operator before the real Listen call
// fails with a less readable error.
func checkPortInUse(addr string) {
	conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
	if err != nil {
		return
	}
	conn.Close()
	fmt.Fprintf(os.Stderr, "warning: address %s already has a listener; the server may fail to start\n", addr)
}

func backupCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "backup [name]",
		Short: "Create a tar+gzip snapshot of the data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			manager := backup.NewManager(config.DataDir(), config.BackupDir())
			path, err := manager.Create(args[0], description, time.Now())
			if err != nil {
				return err
			}
			info, err := manager.Inspect(path)
			if err != nil {
				return err
			}
			fmt.Printf("backup written to %s (%d files, %d bytes, %s)\n", path, info.FileCount, info.BackupSize, info.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "free-form description stored in the backup")
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-list",
		Short: "List backups in the backup directory, with a summary of each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			manager := backup.NewManager(config.DataDir(), config.BackupDir())
			names, err := manager.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no backups found in", config.BackupDir())
				return nil
			}
			for _, name := range names {
				info, err := manager.Inspect(filepath.Join(config.BackupDir(), name))
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%d files\t%d bytes\t%s\t%s\n", name, info.FileCount, info.BackupSize, info.Timestamp.Format(time.RFC3339), info.Description)
			}
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [name]",
		Short: "Restore the data directory from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			manager := backup.NewManager(config.DataDir(), config.BackupDir())
			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(config.BackupDir(), path)
			}
			if err := manager.Restore(path); err != nil {
				return err
			}
			fmt.Println("restored from", path)
			return nil
		},
	}
	return cmd
}
