// main package for the narration-client, a small CLI for sending narration
// requests to a running narration-service over NATS.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/book-expert/narration-service/internal/handler"
	"github.com/nats-io/nats.go"
)

// Flag descriptions and messages.
const (
	flagTextDesc    = "Text to convert to speech"
	flagURLDesc     = "NATS server URL"
	flagSubjectDesc = "Request subject the service listens on"
	flagTimeoutDesc = "Request timeout in seconds"
)

// Flag names and defaults.
const (
	flagText    = "text"
	flagURL     = "url"
	flagSubject = "subject"
	flagTimeout = "timeout"

	defaultURL     = nats.DefaultURL
	defaultSubject = "narration.requested"
	defaultTimeout = 120
)

// errTextRequired indicates the --text flag was not provided.
var errTextRequired = errors.New("--text must be provided")

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	text    string
	url     string
	subject string
	timeout int
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run is the main application entry point, returning an error on failure.
func run() error {
	flags := parseFlags()

	if flags.text == "" {
		flag.Usage()

		return errTextRequired
	}

	response, err := request(flags)
	if err != nil {
		return err
	}

	fmt.Print(formatResponse(response))

	if response.StatusCode != 200 {
		return fmt.Errorf("conversion failed with status %d", response.StatusCode)
	}

	return nil
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.url, flagURL, defaultURL, flagURLDesc)
	flag.StringVar(&flags.subject, flagSubject, defaultSubject, flagSubjectDesc)
	flag.IntVar(&flags.timeout, flagTimeout, defaultTimeout, flagTimeoutDesc)
	flag.Parse()

	return flags
}

// request sends the narration request and decodes the structured response.
func request(flags appFlags) (*handler.Response, error) {
	natsConnection, err := nats.Connect(flags.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", flags.url, err)
	}
	defer natsConnection.Close()

	requestData, err := json.Marshal(handler.Request{Text: flags.text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	replyMsg, err := natsConnection.Request(
		flags.subject,
		requestData,
		time.Duration(flags.timeout)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("request to subject %s failed: %w", flags.subject, err)
	}

	var response handler.Response

	err = json.Unmarshal(replyMsg.Data, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// formatResponse renders the service response for the terminal.
func formatResponse(response *handler.Response) string {
	out := response.Body.Message + "\n"

	if response.Body.FileURL != "" {
		out += response.Body.FileURL + "\n"
	}

	if response.Body.Error != "" {
		out += "error: " + response.Body.Error + "\n"
	}

	return out
}
