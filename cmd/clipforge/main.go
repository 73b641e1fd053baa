package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clipforge",
	Short: "Turn a topic into a complete short-form content bundle",
	Long: `clipforge generates a narration script, a voiceover, a vertical video,
a thumbnail, and per-platform social posts from a single topic string.

Stages back onto external generative services when API keys are configured
(GEMINI_API_KEY, OPENAI_API_KEY) and fall back to local deterministic
generators when they are not, so the bundle is always complete.

Examples:
  clipforge generate --topic "5 habits of resilient engineers"
  clipforge generate -t "sourdough basics" --duration short --platforms tiktok,reels
  clipforge serve`,
}

func main() {
	_ = godotenv.Load()
	rootCmd.AddCommand(generateCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
