package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jobyaari/trendpipe/internal/core/domain"
	"github.com/jobyaari/trendpipe/internal/core/ports"
)

// artifactExtensions maps each content slot to the file extension used in
// its derived public link.
var artifactExtensions = map[domain.ContentType]string{
	domain.ContentInstagramPost:    "txt",
	domain.ContentBlogArticle:      "html",
	domain.ContentYouTubeReel:      "txt",
	domain.ContentYouTubeThumbnail: "png",
}

// GenerateContentUseCase produces the four content artifacts for every
// entry whose status reads Run GPT at load time, whether the approval
// stage or a human set it. Entries categorized Not Relevant are marked
// with the Not Relevant status instead. Artifact slots fail
// independently: a failed slot keeps an error marker while the rest of
// the entry still completes.
type GenerateContentUseCase struct {
	store    ports.EntryStore
	contents ports.ContentStore
	writer   ports.ContentWriter
	pacer    ports.Pacer
	linkBase string
	logger   *slog.Logger
	now      func() time.Time
}

func NewGenerateContentUseCase(
	store ports.EntryStore,
	contents ports.ContentStore,
	writer ports.ContentWriter,
	pacer ports.Pacer,
	linkBase string,
	logger *slog.Logger,
) *GenerateContentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateContentUseCase{
		store:    store,
		contents: contents,
		writer:   writer,
		pacer:    pacer,
		linkBase: strings.TrimRight(linkBase, "/"),
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *GenerateContentUseCase) Run(ctx context.Context) error {
	entries, err := uc.store.Load(ctx, domain.StageApproved)
	if err != nil {
		return fmt.Errorf("load approved entries: %w", err)
	}

	previous, err := uc.loadPrevious(ctx)
	if err != nil {
		return err
	}

	bundles := make(map[string]domain.GeneratedContent, len(previous))
	for k, b := range previous {
		bundles[k] = b
	}

	generated := 0
	for i := range entries {
		entry := &entries[i]
		if entry.Category == domain.CategoryNotRelevant {
			if entry.Status != domain.StatusNotRelevant {
				if err := entry.TransitionTo(domain.StatusNotRelevant); err != nil {
					uc.logger.Warn("status_transition_rejected",
						slog.String("keyword", entry.Keyword),
						slog.String("error", err.Error()),
					)
				}
			}
			uc.logger.Info("generation_skipped",
				slog.String("keyword", entry.Keyword),
				slog.String("reason", "category_not_relevant"),
			)
			continue
		}
		if entry.Status != domain.StatusRunGpt {
			uc.logger.Info("generation_skipped",
				slog.String("keyword", entry.Keyword),
				slog.String("status", string(entry.Status)),
			)
			continue
		}

		bundle, err := uc.generateEntry(ctx, entry, previous[entry.Keyword])
		if err != nil {
			return err
		}
		bundles[entry.Keyword] = bundle
		if entry.Status == domain.StatusContentGenerated {
			generated++
		}
	}

	if err := uc.persist(ctx, entries, bundles); err != nil {
		return err
	}

	uc.logger.Info("generation_complete",
		slog.Int("entries", len(entries)),
		slog.Int("generated", generated),
	)
	return nil
}

// generateEntry fills the entry's artifact slots, reusing earlier
// successful artifacts and leaving error markers for failed slots.
// Only context cancellation aborts the pass.
func (uc *GenerateContentUseCase) generateEntry(ctx context.Context, entry *domain.Entry, prior domain.GeneratedContent) (domain.GeneratedContent, error) {
	artifacts := make(map[domain.ContentType]domain.Artifact, len(domain.ContentTypes))
	failures := 0

	for _, ct := range domain.ContentTypes {
		if existing, ok := prior.Artifacts[ct]; ok && !existing.Failed() {
			artifacts[ct] = existing
			entry.SetLink(ct, uc.artifactLink(ct, entry.Keyword))
			continue
		}

		if err := ctx.Err(); err != nil {
			return domain.GeneratedContent{}, err
		}
		if uc.pacer != nil {
			if err := uc.pacer.Wait(ctx); err != nil {
				return domain.GeneratedContent{}, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		artifact, err := uc.writer.Generate(ctx, ct, *entry)
		if err != nil {
			if ctx.Err() != nil {
				return domain.GeneratedContent{}, ctx.Err()
			}
			uc.logger.Warn("artifact_generation_failed",
				slog.String("keyword", entry.Keyword),
				slog.String("content_type", string(ct)),
				slog.String("error", err.Error()),
			)
			artifacts[ct] = domain.Artifact{Error: err.Error()}
			failures++
			continue
		}
		artifacts[ct] = artifact
		entry.SetLink(ct, uc.artifactLink(ct, entry.Keyword))
	}

	entry.Content = artifacts
	if failures < len(domain.ContentTypes) {
		entry.ContentGeneratedAt = uc.now().UTC()
		if err := entry.TransitionTo(domain.StatusContentGenerated); err != nil {
			uc.logger.Warn("status_transition_rejected",
				slog.String("keyword", entry.Keyword),
				slog.String("error", err.Error()),
			)
		}
	} else {
		uc.logger.Warn("all_artifacts_failed", slog.String("keyword", entry.Keyword))
	}

	return domain.GeneratedContent{
		Keyword:       entry.Keyword,
		Category:      entry.Category,
		InterestScore: entry.InterestScore,
		GeneratedAt:   uc.now().UTC(),
		Artifacts:     artifacts,
	}, nil
}

func (uc *GenerateContentUseCase) loadPrevious(ctx context.Context) (map[string]domain.GeneratedContent, error) {
	stored, err := uc.contents.LoadContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previous content: %w", err)
	}
	previous := make(map[string]domain.GeneratedContent, len(stored))
	for _, b := range stored {
		previous[b.Keyword] = b
	}
	return previous, nil
}

func (uc *GenerateContentUseCase) persist(ctx context.Context, entries []domain.Entry, bundles map[string]domain.GeneratedContent) error {
	ordered := make([]domain.GeneratedContent, 0, len(bundles))
	for _, entry := range entries {
		if b, ok := bundles[entry.Keyword]; ok {
			ordered = append(ordered, b)
			delete(bundles, entry.Keyword)
		}
	}
	// Bundles from earlier runs whose keywords left the stage keep their
	// content dump rows.
	for _, b := range bundles {
		ordered = append(ordered, b)
	}

	if err := uc.contents.SaveContent(ctx, ordered); err != nil {
		return fmt.Errorf("save generated content: %w", err)
	}
	if err := uc.contents.SaveSummary(ctx, ordered); err != nil {
		return fmt.Errorf("save content summary: %w", err)
	}
	if err := uc.store.Save(ctx, domain.StageUpdated, entries); err != nil {
		return fmt.Errorf("save updated entries: %w", err)
	}
	return nil
}

// artifactLink derives the stable public link for one artifact slot.
func (uc *GenerateContentUseCase) artifactLink(ct domain.ContentType, keyword string) string {
	sum := sha256.Sum256([]byte(keyword))
	return fmt.Sprintf("%s/%s_%s_%s.%s",
		uc.linkBase, ct, slugify(keyword), hex.EncodeToString(sum[:])[:8], artifactExtensions[ct])
}

// slugify lowers the keyword and folds every non-alphanumeric run into a
// single underscore.
func slugify(keyword string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(keyword)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
