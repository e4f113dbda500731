package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	errprocess "media_upload_service/pkg/err"

	"github.com/gofiber/fiber/v2"
)

// AgentFetcher Fetcher on fiber's HTTP client
type AgentFetcher struct {
	Timeout time.Duration
}

// Fetch GET url, any non 200 answer is an error
func (f AgentFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errprocess.AppError{Kind: errprocess.ClientNetworkFailure, Message: "Download cancelled", Err: err}
	}

	agent := fiber.Get(url)
	if f.Timeout > 0 {
		agent.Timeout(f.Timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, &errprocess.AppError{Kind: errprocess.ClientNetworkFailure, Message: "Download failed", Err: err}
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, &errprocess.AppError{Kind: errprocess.ClientNetworkFailure, Message: "Download failed", Err: errors.Join(errs...)}
	}
	if code != fiber.StatusOK {
		return nil, errprocess.New(errprocess.ClientNetworkFailure, fmt.Sprintf("Download failed with status %d", code))
	}
	return body, nil
}
