package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sooryaraj/folio/internal/contact"
	"github.com/spf13/cobra"
)

var (
	mailtoName    string
	mailtoMessage string
	mailtoSubject string
	mailtoDecode  string
	mailtoJSON    bool
)

var mailtoCmd = &cobra.Command{
	Use:   "mailto",
	Short: "Print the mailto: link the contact form would open",
	Long: `Run a contact form submission from the command line and print the
resulting mailto: link, or decode an existing link.

Examples:
  folio mailto --name "Ava O'Brien" --message "Hi! Love your work."
  folio mailto --name Ava --message Hi --subject "Wedding shoot" --json
  folio mailto --decode "mailto:sooryaraj.dev@gmail.com?subject=Hi&body=..."`,
	Args: cobra.NoArgs,
	RunE: runMailto,
}

func init() {
	rootCmd.AddCommand(mailtoCmd)

	mailtoCmd.Flags().StringVarP(&mailtoName, "name", "n", "", "sender name")
	mailtoCmd.Flags().StringVarP(&mailtoMessage, "message", "m", "", "message body")
	mailtoCmd.Flags().StringVarP(&mailtoSubject, "subject", "s", "", "subject (default: the site's subject)")
	mailtoCmd.Flags().StringVar(&mailtoDecode, "decode", "", "decode a mailto: link instead of building one")
	mailtoCmd.Flags().BoolVar(&mailtoJSON, "json", false, "print JSON")
	mailtoCmd.Flags().AddFlagSet(siteFlagSet())
}

func runMailto(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if mailtoDecode != "" {
		msg, err := contact.ParseMailto(mailtoDecode)
		if err != nil {
			return err
		}
		if mailtoJSON {
			return writeJSON(cmd, msg)
		}
		fmt.Fprintf(out, "To:      %s\nSubject: %s\n\n%s\n", msg.Recipient, msg.Subject, msg.Body)
		return nil
	}

	cfg, err := loadConfig(cmd, siteBindings)
	if err != nil {
		return err
	}
	site, err := loadSite(cfg)
	if err != nil {
		return err
	}

	ctrl := contact.NewController(site.Email, site.Subject)
	ctrl.UpdateSenderName(mailtoName)
	ctrl.UpdateMessageBody(mailtoMessage)
	if mailtoSubject != "" {
		ctrl.UpdateSubject(mailtoSubject)
	}
	sub := ctrl.Submit()

	if mailtoJSON {
		return writeJSON(cmd, sub)
	}
	fmt.Fprintln(out, sub.URI)
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
