// Package cli implements the lookup command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
)

type lookupOptions struct {
	limit  int
	asJSON bool
}

// NewLookupCommand builds the `lookup <handle>` command around a lookup handler.
func NewLookupCommand(handler query.LookupFollowsHandler) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <handle>",
		Short: "List the accounts a Bluesky handle follows",
		Long: `Log in with the service account, resolve the handle to its DID,
find the account's PDS and print who it follows.

The service account secret is read from the PASSWORD environment variable.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, handler, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", query.DefaultFollowsLimit, "maximum number of follows to list")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")

	return cmd
}

func runLookup(cmd *cobra.Command, handler query.LookupFollowsHandler, handle string, opts *lookupOptions) error {
	result, err := handler.Handle(cmd.Context(), query.LookupFollows{
		Handle: handle,
		Limit:  opts.limit,
	})
	if err != nil {
		return fmt.Errorf("lookup failed at %s: %w", domainerror.Step(err), err)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, result)
	}
	return writeTable(out, result)
}

type lookupJSON struct {
	Handle      string       `json:"handle"`
	DID         string       `json:"did"`
	PDSEndpoint string       `json:"pdsEndpoint"`
	Follows     []followJSON `json:"follows"`
}

type followJSON struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Description string `json:"description,omitempty"`
}

func writeJSON(w io.Writer, result query.LookupFollowsResult) error {
	doc := lookupJSON{
		Handle:      result.Handle.String(),
		DID:         result.DID.String(),
		PDSEndpoint: result.PDSEndpoint,
		Follows:     make([]followJSON, 0, len(result.Follows)),
	}
	for _, f := range result.Follows {
		doc.Follows = append(doc.Follows, followJSON(f))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeTable(w io.Writer, result query.LookupFollowsResult) error {
	fmt.Fprintf(w, "@%s (%s) follows %d accounts via %s\n",
		result.Handle, result.DID, len(result.Follows), result.PDSEndpoint)

	if len(result.Follows) == 0 {
		fmt.Fprintln(w, "Not following anyone yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range result.Follows {
		fmt.Fprintf(tw, "@%s\t%s\t%s\n", f.Handle, f.DisplayName, f.ProfileURL())
	}
	return tw.Flush()
}
