// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/pkg/types"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve conversions as an AWS Lambda function",
	Long: `Lambda starts the AWS Lambda runtime loop. Each invocation event is a
convert request; the response carries statusCode and a JSON body with the
result envelope. The run ledger is disabled because the function has no
durable local disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Ledger.Path = ""
		if cfg.TempDir == "" {
			cfg.TempDir = os.TempDir()
		}

		a, err := newApp(cmd.Context(), cfg, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		lambda.Start(newHandler(a.pipeline, cfg.Options))
		return nil
	},
}

// handler is the Lambda function signature.
type handler func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error)

// invalidEvent is the 400 body for an event that is not a request.
type invalidEvent struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// newHandler returns a handler that runs p for each event. Failures are
// reported in the response, never as a handler error, so the runtime does
// not retry them.
func newHandler(p *convert.Pipeline, defaults types.ConversionOptions) handler {
	return func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
		req, err := types.DecodeRequest(event, defaults)
		if err != nil {
			body := invalidEvent{Error: "Invalid input", Message: err.Error()}
			if lc, ok := lambdacontext.FromContext(ctx); ok {
				body.RequestID = lc.AwsRequestID
			}
			return response(http.StatusBadRequest, body)
		}
		res := p.Run(ctx, req)
		return response(res.StatusCode, res)
	}
}

func response(status int, body any) (events.APIGatewayProxyResponse, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bytes.TrimRight(buf.Bytes(), "\n")),
	}, nil
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
