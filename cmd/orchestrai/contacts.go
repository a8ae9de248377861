package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankithreddys/orchestrai/contacts"
	"github.com/ankithreddys/orchestrai/internal/statepaths"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Inspect and edit the contact directory",
	}
	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsFindCmd())
	cmd.AddCommand(newContactsAddCmd())
	return cmd
}

func openDirectory() (*contacts.Directory, error) {
	return contacts.Open(statepaths.ContactsPath(), viper.GetFloat64("contacts.match_threshold"))
}

func newContactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory()
			if err != nil {
				return err
			}
			all := dir.All()
			if len(all) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No contacts.")
				return nil
			}
			for _, c := range all {
				phone := c.Phone
				if phone == "" {
					phone = "-"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", c.FullName(), c.Email, phone)
			}
			return nil
		},
	}
}

func newContactsFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Look up a contact by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := openDirectory()
			if err != nil {
				return err
			}
			query := strings.TrimSpace(args[0])

			if contacts.IsValidEmail(query) {
				c, ok := dir.FindByEmail(query)
				if !ok {
					return fmt.Errorf("no contact with email %s", query)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", c.FullName(), c.Email, c.Phone)
				return nil
			}

			result := dir.Find(query)
			switch result.Kind {
			case contacts.MatchResolved:
				c := result.Contact
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", c.FullName(), c.Email, c.Phone)
				return nil
			case contacts.MatchAmbiguous:
				for _, c := range result.Candidates {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", c.FullName(), c.Email)
				}
				return nil
			default:
				return fmt.Errorf("no contact matches %q", query)
			}
		},
	}
}

func newContactsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			first, _ := cmd.Flags().GetString("first-name")
			last, _ := cmd.Flags().GetString("last-name")
			email, _ := cmd.Flags().GetString("email")
			phone, _ := cmd.Flags().GetString("phone")

			dir, err := openDirectory()
			if err != nil {
				return err
			}
			saved, err := dir.Create(cmd.Context(), contacts.Contact{
				FirstName: strings.TrimSpace(first),
				LastName:  strings.TrimSpace(last),
				Email:     strings.TrimSpace(email),
				Phone:     strings.TrimSpace(phone),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s <%s>\n", saved.FullName(), saved.Email)
			return nil
		},
	}

	cmd.Flags().String("first-name", "", "First name.")
	cmd.Flags().String("last-name", "", "Last name.")
	cmd.Flags().String("email", "", "Email address (required).")
	cmd.Flags().String("phone", "", "Phone number.")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
