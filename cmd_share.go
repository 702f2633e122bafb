package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/festive-greeting/internal/desktop"
	"github.com/iburimskiy/festive-greeting/internal/share"
)

var shareOpen bool

// shareCmd prints or opens a share link
var shareCmd = &cobra.Command{
	Use:   "share [platform]",
	Short: "Print the share link for a sender",
	Long: `Prints the share link for --name. With a platform (whatsapp, facebook,
twitter, instagram or copy) the share message and web-intent URL are printed
too; --open hands the share to the browser or clipboard instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShare,
}

func init() {
	shareCmd.Flags().BoolVar(&shareOpen, "open", false, "Open the share intent or copy the link")
}

func runShare(cmd *cobra.Command, args []string) error {
	name := senderName(senderFlag)
	link, err := share.URL(cfg.Share.BaseURL, name)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	}

	platform, err := share.ParsePlatform(args[0])
	if err != nil {
		return err
	}
	now := time.Now()
	target, err := cfg.TargetTime(now)
	if err != nil {
		return err
	}
	christmas := !now.Before(target)

	if shareOpen {
		d := &share.Dispatcher{
			Base:   cfg.Share.BaseURL,
			Sender: cfg.Share.Sender,
			Opener: desktop.BrowserOpener{},
			Clip:   &desktop.SystemClipboard{},
			Log:    logger,
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Share(share.Request{
			Platform:  platform,
			Name:      name,
			Christmas: christmas,
			Year:      target.Year(),
		}))
		return nil
	}

	text := share.Text(name, christmas, target.Year(), cfg.Share.Sender)
	fmt.Fprintln(cmd.OutOrStdout(), link)
	fmt.Fprintln(cmd.OutOrStdout(), text)
	if intent, ok := share.IntentURL(platform, text, link); ok {
		fmt.Fprintln(cmd.OutOrStdout(), intent)
	}
	return nil
}
