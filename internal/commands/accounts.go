package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fintab-dev/fintab/internal/ledger"
	"github.com/fintab-dev/fintab/internal/model"
	"github.com/fintab-dev/fintab/internal/retriever"
)

func newAccountsCommand() *cobra.Command {
	var (
		accountType string
		search      string
		page        int
		limit       int
		sortBy      string
		sortOrder   string
		includeDel  bool
	)

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts in the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(cmd)
			if err != nil {
				return err
			}

			q := ledger.AccountQuery{
				IncludeDefault: true,
				SearchKey:      search,
				IncludeDeleted: includeDel,
				Page:           page,
				PageSize:       limit,
				SortBy:         ledger.SortField(sortBy),
				SortOrder:      ledger.SortOrder(sortOrder),
			}

			r := retriever.General(b.store)
			if accountType != "" {
				r = retriever.ForType(b.store, model.AccountType(accountType))
			}

			res, err := r.GetAccounts(cmd.Context(), b.cfg.Ledger.ScopeID, q)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tLIQUID")
			for _, a := range res.Data {
				liquid := ""
				if a.Liquidity {
					liquid = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Type, liquid)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d accounts)\n", res.Page, res.TotalPages, res.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "restrict to one account type")
	cmd.Flags().StringVar(&search, "search", "", "search key matched against code and name")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 25, "page size")
	cmd.Flags().StringVar(&sortBy, "sort", "code", "sort field (code or createdAt)")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "sort order (asc or desc)")
	cmd.Flags().BoolVar(&includeDel, "deleted", false, "include deleted accounts")

	return cmd
}
