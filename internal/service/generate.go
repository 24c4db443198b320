package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/describe"
	"server/internal/providers/image"
	"server/internal/storage"
)

// styleSuffix is appended to every effective prompt before it reaches the
// image provider.
const styleSuffix = " Professional product photography, commercial quality, high resolution."

// Compositor overlays the uploaded logo onto generated image bytes.
type Compositor func(baseImage []byte, logoPath string) ([]byte, error)

// ResultStore persists final image bytes under a storage key.
type ResultStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Mailer delivers the result email; sends are dispatched fire-and-forget.
type Mailer interface {
	SendResult(ctx context.Context, to, imageURL, description string) error
}

// GenerateInput carries one validated generation request into the pipeline.
// Transport is responsible for logo presence/type/size validation before
// calling Generate.
type GenerateInput struct {
	Prompt           string
	AdditionalPrompt string
	LogoPath         string
	LogoFilename     string
	Email            string
	Name             string
	Phone            string
}

// GenerateResult is the caller-visible outcome of a successful pipeline run.
type GenerateResult struct {
	ImageURL     string
	Description  string
	GenerationID int64
}

// Deps holds the injected collaborators of the generation pipeline.
type Deps struct {
	Leads       domain.LeadRepository
	Generations domain.GenerationRepository
	Images      image.Generator
	Describer   describe.Describer
	Composite   Compositor
	Store       ResultStore
	Mailer      Mailer
	BaseURL     string
	Logger      infra.Logger
}

// Generator sequences the image-generation pipeline: persistence, upstream
// calls, compositing, output storage and notification.
type Generator struct {
	deps Deps
}

// NewGenerator constructs the pipeline with explicit dependencies.
func NewGenerator(deps Deps) *Generator {
	return &Generator{deps: deps}
}

// Generate runs the full pipeline for one request. Lead/generation
// persistence and email delivery are best-effort: their failures are logged
// and never change the outcome. Upstream image generation, compositing and
// output writes are fatal to the request.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	log := g.deps.Logger

	genID := g.recordPending(ctx, in)

	effective := effectivePrompt(in.Prompt, in.AdditionalPrompt)

	imgBytes, err := g.deps.Images.Generate(ctx, effective+styleSuffix)
	if err != nil {
		return nil, g.fail(ctx, genID, in.LogoPath, fmt.Errorf("%w: %w", domain.ErrUpstreamImage, err))
	}
	if len(imgBytes) == 0 {
		return nil, g.fail(ctx, genID, in.LogoPath, domain.ErrUpstreamFetch)
	}

	final, err := g.deps.Composite(imgBytes, in.LogoPath)
	if err != nil {
		return nil, g.fail(ctx, genID, in.LogoPath, fmt.Errorf("%w: %w", domain.ErrComposite, err))
	}

	key := storage.UniqueImageKey()
	if _, err := g.deps.Store.Write(ctx, key, final); err != nil {
		return nil, g.fail(ctx, genID, in.LogoPath, fmt.Errorf("store output: %w", err))
	}

	// The describer contract guarantees a usable fallback; a failure here
	// never fails the request.
	description, err := g.deps.Describer.Describe(ctx, effective)
	if err != nil || strings.TrimSpace(description) == "" {
		description = describe.FallbackDescription
	}

	removeQuietly(in.LogoPath)

	imageURL := strings.TrimRight(g.deps.BaseURL, "/") + "/generated/" + key

	if genID != 0 {
		if err := g.deps.Generations.MarkSucceeded(ctx, genID, imageURL, description); err != nil {
			log.Warn().Err(err).Int64("generation_id", genID).Msg("failed to mark generation succeeded")
		}
	}

	if in.Email != "" {
		g.sendResultAsync(in.Email, imageURL, description)
	}

	return &GenerateResult{
		ImageURL:     imageURL,
		Description:  description,
		GenerationID: genID,
	}, nil
}

// recordPending upserts the lead and creates the pending generation row when
// the request carries an email. Persistence problems are logged and swallowed
// so history tracking never blocks image generation.
func (g *Generator) recordPending(ctx context.Context, in GenerateInput) int64 {
	if in.Email == "" {
		return 0
	}
	log := g.deps.Logger

	var leadID *int64
	lead, err := g.deps.Leads.UpsertByEmail(ctx, &domain.Lead{
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", in.Email).Msg("failed to upsert lead")
	} else {
		leadID = &lead.ID
	}

	genID, err := g.deps.Generations.Create(ctx, &domain.Generation{
		LeadID:           leadID,
		Prompt:           in.Prompt,
		AdditionalPrompt: in.AdditionalPrompt,
		LogoFilename:     in.LogoFilename,
		Status:           domain.GenerationStatusPending,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to create generation record")
		return 0
	}
	return genID
}

// fail handles the fatal path: temp logo cleanup, best-effort failure
// recording, and a wrapped error for transport.
func (g *Generator) fail(ctx context.Context, genID int64, logoPath string, cause error) error {
	removeQuietly(logoPath)
	if genID != 0 {
		if err := g.deps.Generations.MarkFailed(ctx, genID, cause.Error()); err != nil {
			g.deps.Logger.Warn().Err(err).Int64("generation_id", genID).Msg("failed to mark generation failed")
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrGenerationFailed, cause)
}

// sendResultAsync delivers the result email without awaiting the outcome.
// The send is detached from the request context so a completed response does
// not cancel it.
func (g *Generator) sendResultAsync(to, imageURL, description string) {
	log := g.deps.Logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := g.deps.Mailer.SendResult(ctx, to, imageURL, description); err != nil {
			log.Warn().Err(err).Str("to", to).Msg("failed to send result email")
		}
	}()
}

func effectivePrompt(prompt, additional string) string {
	if strings.TrimSpace(additional) == "" {
		return prompt
	}
	return prompt + " " + additional
}

func removeQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
