// cmd/client is the interactive SQL client of spec.md §6: it never talks
// to the storage layer directly, only to the HTTP endpoint exposed by
// cmd/server, exactly as a real client/server pair over spec.md's
// engine boundary.
//
// The REPL loop (liner.NewLiner, history file under os.TempDir(),
// SetCtrlCAborts) is carried over nearly verbatim from an earlier TCP-based client's
// cmd/cli/main.go, adapted from a raw TCP prompt-scraping protocol to
// one HTTP request per line. The command tree (root + exec subcommand)
// is grounded on untoldecay-BeadsLog/cmd/bd's cobra.Command shape.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	useTLS     bool
)

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
var headerStyle = lipgloss.NewStyle().Bold(true)

func main() {
	root := &cobra.Command{
		Use:   "briarql-client",
		Short: "Interactive client for a briarql server",
		Run: func(cmd *cobra.Command, args []string) {
			runREPL()
		},
	}
	root.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:8080", "briarql server address")
	root.PersistentFlags().BoolVar(&useTLS, "tls", false, "connect over HTTPS")

	execCmd := &cobra.Command{
		Use:   "exec [query]",
		Short: "Run a single SQL statement and exit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runOnce(args[0])
		},
	}
	root.AddCommand(execCmd)
	root.AddCommand(tablesCmd())
	root.AddCommand(describeCmd())
	root.AddCommand(dropTableCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func baseURL() string {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	return scheme + "://" + serverAddr
}

type executeResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func execute(query string) (executeResponse, error) {
	body, err := json.Marshal(map[string]string{"command": query})
	if err != nil {
		return executeResponse{}, err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(baseURL()+"/execute", "application/json", bytes.NewReader(body))
	if err != nil {
		return executeResponse{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return executeResponse{}, err
	}
	var decoded executeResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return executeResponse{}, fmt.Errorf("unreadable server response: %s", data)
	}
	return decoded, nil
}

func runOnce(query string) {
	result, err := execute(query)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	if result.Error != "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render(result.Error))
		os.Exit(1)
	}
	fmt.Println(renderResult(result.Result))
}

// tablesCmd, describeCmd, and dropTableCmd speak to the /tables routes
// internal/httpapi exposes for SPEC_FULL.md §4.3's supplemental catalog
// introspection (LIST TABLES/DESCRIBE/DROP TABLE have no grammar
// production, so they are plain HTTP verbs rather than SQL statements).
func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List every table in the connected server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var result executeResponse
			if err := getJSON("/tables", &result); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
				os.Exit(1)
			}
			if result.Error != "" {
				fmt.Fprintln(os.Stderr, errorStyle.Render(result.Error))
				os.Exit(1)
			}
			fmt.Println(renderResult(result.Result))
		},
	}
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [table]",
		Short: "Show a table's columns and B-tree size",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var result executeResponse
			if err := getJSON("/tables/"+args[0], &result); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
				os.Exit(1)
			}
			if result.Error != "" {
				fmt.Fprintln(os.Stderr, errorStyle.Render(result.Error))
				os.Exit(1)
			}
			fmt.Println(renderResult(result.Result))
		},
	}
}

func dropTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop-table [table]",
		Short: "Drop a table and delete its storage directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var result executeResponse
			if err := deleteJSON("/tables/"+args[0], &result); err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
				os.Exit(1)
			}
			if result.Error != "" {
				fmt.Fprintln(os.Stderr, errorStyle.Render(result.Error))
				os.Exit(1)
			}
			fmt.Println(renderResult(result.Result))
		},
	}
}

func getJSON(path string, out *executeResponse) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL() + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func deleteJSON(path string, out *executeResponse) error {
	req, err := http.NewRequest(http.MethodDelete, baseURL()+path, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func runREPL() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".briarql_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Println(headerStyle.Render("briarql") + " — connected to " + baseURL())
	fmt.Println("Type a SQL statement, or 'exit' to quit.")

	for {
		input, err := line.Prompt("briarql> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if strings.EqualFold(input, "exit") {
			break
		}

		result, err := execute(input)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		if result.Error != "" {
			fmt.Println(errorStyle.Render(result.Error))
			continue
		}
		fmt.Println(renderResult(result.Result))
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

// renderResult formats a status string as-is, and a SELECT's row slice
// as a lipgloss table — presentation only, never part of the wire
// protocol.
func renderResult(result interface{}) string {
	switch v := result.(type) {
	case string:
		return statusStyle.Render(v)
	case []interface{}:
		return renderRows(v)
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

func renderRows(rows []interface{}) string {
	if len(rows) == 0 {
		return statusStyle.Render("(0 rows)")
	}
	first, ok := rows[0].(map[string]interface{})
	if !ok {
		data, _ := json.Marshal(rows)
		return string(data)
	}
	var columns []string
	for col := range first {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var rendered [][]string
	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = fmt.Sprintf("%v", row[col])
		}
		rendered = append(rendered, cells)
	}

	return table.New().
		Headers(columns...).
		Rows(rendered...).
		Border(lipgloss.RoundedBorder()).
		String()
}
