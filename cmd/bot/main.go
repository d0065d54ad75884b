package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyvqa",
	Short: "Telegram bot for visual question answering over satellite imagery",
	Long: `skyvqa answers questions about satellite images in Telegram chats and
draws the detected objects back onto the picture.

Configuration comes from the environment (or a .env file): BOT_TOKEN,
VQA_BACKEND_URL, NGROK_URL, NGROK_USER, NGROK_PASS, PROXY_ADDR and others.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(renderCmd)
}
