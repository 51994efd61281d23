package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/results"
	"github.com/hupe1980/results/cloudevents"
	"github.com/hupe1980/results/httpbody"
	"github.com/hupe1980/results/metadata"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Parse an envelope and report its outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := a.readEnvelope(cmd, args[0])
			if err != nil {
				return err
			}

			outcome := cloudevents.OutcomeSuccess
			if env.IsFailure() {
				errs, _ := env.Result.Errors()
				outcome = fmt.Sprintf("%s (%d errors)", cloudevents.OutcomeFailure, errs.Len())
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "valid %s envelope id=%s type=%s\n", outcome, env.ID, env.Type)
			return err
		},
	}
}

// readEnvelope reads and parses an envelope, returning it with its raw bytes.
func (a *app) readEnvelope(cmd *cobra.Command, path string) (cloudevents.Envelope[json.RawMessage], []byte, error) {
	var zero cloudevents.Envelope[json.RawMessage]

	rd, err := a.newReader()
	if err != nil {
		return zero, nil, err
	}
	data, err := a.readInput(cmd.Context(), cmd, path)
	if err != nil {
		return zero, nil, err
	}
	env, err := cloudevents.ReadValueEnvelope[json.RawMessage](rd, data)
	var pe *cloudevents.ParseError
	if errors.As(err, &pe) && pe.Attribute == cloudevents.AttrData {
		// Results without a value may omit data.
		if void, verr := rd.ReadEnvelope(data); verr == nil {
			return withoutValue(void), data, nil
		}
	}
	return env, data, err
}

func withoutValue(e cloudevents.Envelope[results.Unit]) cloudevents.Envelope[json.RawMessage] {
	out := cloudevents.Envelope[json.RawMessage]{
		Type:            e.Type,
		Source:          e.Source,
		ID:              e.ID,
		Subject:         e.Subject,
		Time:            e.Time,
		DataContentType: e.DataContentType,
		DataSchema:      e.DataSchema,
		Extensions:      e.Extensions,
		Result:          results.OkWithMetadata[json.RawMessage](nil, e.Result.Metadata()),
	}
	if errs, err := e.Result.Errors(); err == nil {
		out.Result = results.FailWith[json.RawMessage](errs, e.Result.Metadata())
	}
	return out
}

type inspectedError struct {
	Message  string          `json:"message"`
	Code     string          `json:"code,omitempty"`
	Target   string          `json:"target,omitempty"`
	Category string          `json:"category"`
	Metadata metadata.Object `json:"metadata"`
}

type inspection struct {
	Type            string           `json:"type"`
	Source          string           `json:"source"`
	ID              string           `json:"id"`
	Subject         string           `json:"subject,omitempty"`
	Time            string           `json:"time,omitempty"`
	DataContentType string           `json:"datacontenttype,omitempty"`
	DataSchema      string           `json:"dataschema,omitempty"`
	Outcome         string           `json:"outcome"`
	Extensions      metadata.Object  `json:"extensions"`
	Value           json.RawMessage  `json:"value,omitempty"`
	Errors          []inspectedError `json:"errors,omitempty"`
	Metadata        metadata.Object  `json:"metadata"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file|->",
		Short: "Print the resolved attributes, errors, and metadata of an envelope as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := a.readEnvelope(cmd, args[0])
			if err != nil {
				return err
			}

			out := inspection{
				Type:            env.Type,
				Source:          env.Source,
				ID:              env.ID,
				Subject:         env.Subject,
				DataContentType: env.DataContentType,
				DataSchema:      env.DataSchema,
				Outcome:         cloudevents.OutcomeSuccess,
				Extensions:      env.Extensions,
				Metadata:        env.Result.Metadata(),
			}
			if !env.Time.IsZero() {
				out.Time = env.Time.Format(time.RFC3339Nano)
			}

			if errs, err := env.Result.Errors(); err == nil {
				out.Outcome = cloudevents.OutcomeFailure
				for _, e := range errs.All() {
					out.Errors = append(out.Errors, inspectedError{
						Message:  e.Message,
						Code:     e.Code,
						Target:   e.Target,
						Category: e.Category.String(),
						Metadata: e.Metadata,
					})
				}
			} else {
				out.Value = env.Result.ValueOr(nil)
			}

			b, err := gojson.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

type encodeFlags struct {
	outcome    string
	value      string
	message    string
	code       string
	target     string
	category   string
	id         string
	eventType  string
	subject    string
	dataSchema string
	http       bool
}

func newEncodeCmd(a *app) *cobra.Command {
	var f encodeFlags

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build an envelope from flags",
		Example: `  resultctl encode --value '{"total":42}' --id evt-1
  resultctl encode --outcome failure --message "must be positive" --target total --category validation
  resultctl encode --http --outcome failure --message "order missing" --category notfound`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.http {
				return f.writeHTTP(cmd)
			}
			w, err := a.newWriter()
			if err != nil {
				return err
			}

			attrs := cloudevents.Attributes{
				ID:         f.id,
				Subject:    f.subject,
				DataSchema: f.dataSchema,
			}

			var b []byte
			switch f.outcome {
			case cloudevents.OutcomeSuccess:
				attrs.SuccessType = f.eventType
				if f.value == "" {
					b, err = w.Write(results.OK(), attrs)
					break
				}
				if !json.Valid([]byte(f.value)) {
					return usageErr("--value is not valid JSON")
				}
				b, err = cloudevents.WriteValue(w, results.Ok(json.RawMessage(f.value)), attrs)
			case cloudevents.OutcomeFailure:
				attrs.FailureType = f.eventType
				e, ferr := f.failure()
				if ferr != nil {
					return ferr
				}
				b, err = w.Write(results.FailVoid(e), attrs)
			default:
				return usageErr("--outcome must be %q or %q", cloudevents.OutcomeSuccess, cloudevents.OutcomeFailure)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.outcome, "outcome", cloudevents.OutcomeSuccess, "success | failure")
	fl.StringVar(&f.value, "value", "", "success value as JSON (omit for a result without value)")
	fl.StringVar(&f.message, "message", "", "failure message")
	fl.StringVar(&f.code, "code", "", "failure code")
	fl.StringVar(&f.target, "target", "", "failure target")
	fl.StringVar(&f.category, "category", "", "failure category (e.g. validation, notfound, conflict)")
	fl.StringVar(&f.id, "id", "", "event id (default: generated)")
	fl.StringVar(&f.eventType, "type", "", "event type (default: configured success/failure type)")
	fl.StringVar(&f.subject, "subject", "", "event subject")
	fl.StringVar(&f.dataSchema, "dataschema", "", "event data schema (absolute URI)")
	fl.BoolVar(&f.http, "http", false, "print the HTTP response instead of an envelope")
	return cmd
}

// writeHTTP prints the status line, headers and body of the HTTP response
// the result maps to.
func (f encodeFlags) writeHTTP(cmd *cobra.Command) error {
	w := httpbody.NewWriter()

	var (
		resp httpbody.Response
		err  error
	)
	switch f.outcome {
	case cloudevents.OutcomeSuccess:
		if f.value == "" {
			resp, err = w.Write(results.OK())
			break
		}
		if !json.Valid([]byte(f.value)) {
			return usageErr("--value is not valid JSON")
		}
		resp, err = httpbody.WriteValue(w, results.Ok(json.RawMessage(f.value)))
	case cloudevents.OutcomeFailure:
		e, ferr := f.failure()
		if ferr != nil {
			return ferr
		}
		resp, err = w.Write(results.FailVoid(e))
	default:
		return usageErr("--outcome must be %q or %q", cloudevents.OutcomeSuccess, cloudevents.OutcomeFailure)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "HTTP %d %s\n", resp.Status, http.StatusText(resp.Status)); err != nil {
		return err
	}
	if err := resp.Header.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%s\n", resp.Body)
	return err
}

func (f encodeFlags) failure() (results.Error, error) {
	if f.message == "" {
		return results.Error{}, usageErr("--message is required for failures")
	}
	e := results.NewError(f.message).WithCode(f.code).WithTarget(f.target)
	if f.category != "" {
		c, err := results.ParseCategory(f.category)
		if err != nil {
			return results.Error{}, usageErr("%v", err)
		}
		e = e.WithCategory(c)
	}
	return e, nil
}
