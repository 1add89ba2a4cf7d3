package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dmitrijs2005/snappy/internal/client/client"
	"github.com/dmitrijs2005/snappy/internal/client/identity"
	"github.com/dmitrijs2005/snappy/internal/client/models"
	"github.com/dmitrijs2005/snappy/internal/common"
	"github.com/dmitrijs2005/snappy/internal/logging"
	"github.com/google/uuid"
)

// ProvisioningState is the state of the avatar provisioning workflow.
// A rejected choice goes straight back to StateChoosing.
type ProvisioningState int

const (
	StateLoading ProvisioningState = iota
	StateChoosing
	StateSubmitting
	StateCommitted
)

func (s ProvisioningState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateChoosing:
		return "choosing"
	case StateSubmitting:
		return "submitting"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// SubmitResult tells what a Submit call did.
type SubmitResult int

const (
	// SubmitIgnored: another submission was in flight; nothing was sent.
	SubmitIgnored SubmitResult = iota
	// SubmitCommitted: the backend accepted and the identity was updated.
	SubmitCommitted
	// SubmitRejected: the backend declined; the workflow is choosing again.
	SubmitRejected
	// SubmitFailed: the request or the local write failed.
	SubmitFailed
)

// seedRange bounds the seeds passed to the avatar generator.
const seedRange = 1000

// AvatarProvisioning drives Loading → Choosing → Submitting → Committed for
// an identity without an avatar.
//
// Start begins an attempt and fetches CandidateCount candidates all-or-nothing;
// after a fetch failure the only way forward is another Start. Only one
// submission can be in flight; Submit calls made meanwhile are ignored.
type AvatarProvisioning struct {
	client    client.Client
	generator client.AvatarGenerator
	store     identity.Writer
	navigator Navigator
	notifier  Notifier
	logger    logging.Logger
	seed      func() int

	mu         sync.Mutex
	state      ProvisioningState
	attempt    uint64
	attemptID  string
	identity   models.Identity
	candidates models.CandidateSet
	selected   int
	submitting bool
}

func NewAvatarProvisioning(
	c client.Client,
	generator client.AvatarGenerator,
	store identity.Writer,
	navigator Navigator,
	notifier Notifier,
	logger logging.Logger,
) *AvatarProvisioning {
	return &AvatarProvisioning{
		client:    c,
		generator: generator,
		store:     store,
		navigator: navigator,
		notifier:  notifier,
		logger:    logger.With("component", "avatar-provisioning"),
		seed:      func() int { return rand.IntN(seedRange) },
		selected:  noSelection,
	}
}

// Start begins a new attempt for a NeedsAvatar decision: it discards any
// previous candidates and fetches a fresh set. The workflow stays in
// StateLoading when any candidate fails.
func (w *AvatarProvisioning) Start(ctx context.Context, d Decision) error {
	if d.Status != NeedsAvatar {
		return ErrNotReady
	}

	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	w.attempt++
	attempt := w.attempt
	w.attemptID = uuid.NewString()
	attemptID := w.attemptID
	w.identity = d.Identity
	w.state = StateLoading
	w.candidates = models.CandidateSet{}
	w.selected = noSelection
	w.mu.Unlock()

	log := w.logger.With("attempt", attemptID, "identity", d.Identity.ID)
	log.Info(ctx, "fetching candidate avatars")

	payloads, err := FetchAll(ctx, models.CandidateCount, func(ctx context.Context, _ int) (string, error) {
		return w.generator.GetCandidate(ctx, w.seed())
	})

	w.mu.Lock()
	if attempt != w.attempt || ctx.Err() != nil {
		w.mu.Unlock()
		log.Debug(ctx, "dropping candidates for inactive attempt")
		return ErrStaleView
	}
	if err != nil {
		w.mu.Unlock()
		log.Error(ctx, "candidate fetch failed", "error", err)
		w.notifier.Notify(ctx, "Error fetching avatars", common.KindOf(err).Severity())
		return fmt.Errorf("fetch candidates: %w", err)
	}
	copy(w.candidates[:], payloads)
	w.state = StateChoosing
	w.mu.Unlock()

	log.Info(ctx, "candidates ready")
	return nil
}

// Pick selects candidate i. Allowed only while choosing.
func (w *AvatarProvisioning) Pick(ctx context.Context, i int) error {
	w.mu.Lock()
	if w.state != StateChoosing {
		w.mu.Unlock()
		return ErrNotReady
	}
	if _, ok := w.candidates.At(i); !ok {
		w.mu.Unlock()
		w.notifier.Notify(ctx, fmt.Sprintf("No avatar #%d", i), common.KindValidation.Severity())
		return fmt.Errorf("pick %d: %w", i, ErrIndexOutOfRange)
	}
	w.selected = i
	w.mu.Unlock()
	return nil
}

// Submit sends the selected candidate to the backend.
//
// Without a selection nothing is sent and ErrNoSelection is returned. On
// acceptance the stored identity gets the backend's canonical payload and the
// user is sent to the main screen. On rejection or failure the workflow is
// back to choosing with the same candidates.
func (w *AvatarProvisioning) Submit(ctx context.Context) (SubmitResult, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return SubmitIgnored, nil
	}
	if w.state != StateChoosing {
		w.mu.Unlock()
		return SubmitFailed, ErrNotReady
	}
	if w.selected == noSelection {
		w.mu.Unlock()
		w.notifier.Notify(ctx, "Please select an avatar", common.KindValidation.Severity())
		return SubmitFailed, ErrNoSelection
	}
	w.submitting = true
	w.state = StateSubmitting
	attempt := w.attempt
	index := w.selected
	payload := w.candidates[index]
	id := w.identity
	log := w.logger.With("attempt", w.attemptID, "identity", id.ID)
	w.mu.Unlock()

	log.Info(ctx, "submitting avatar", "index", index)

	result, err := w.submit(ctx, log, id, payload)

	w.mu.Lock()
	w.submitting = false
	active := attempt == w.attempt
	if active {
		if result == SubmitCommitted {
			w.state = StateCommitted
			w.candidates = models.CandidateSet{}
			w.selected = noSelection
		} else {
			w.state = StateChoosing
		}
	}
	w.mu.Unlock()

	if !active {
		log.Debug(ctx, "submission finished for inactive attempt", "result", result)
		if err == nil && result != SubmitCommitted {
			err = ErrStaleView
		}
		return result, err
	}

	switch result {
	case SubmitCommitted:
		w.navigator.GoTo(RouteMain)
	case SubmitRejected:
		w.notifier.Notify(ctx, "Error setting avatar. Please try again.", common.KindRemoteRejection.Severity())
	case SubmitFailed:
		if !errors.Is(err, context.Canceled) {
			w.notifier.Notify(ctx, "Error setting avatar. Please try again.", common.KindOf(err).Severity())
		}
	}
	return result, err
}

// submit performs the remote commit and the local identity update. It does
// not touch workflow state.
func (w *AvatarProvisioning) submit(ctx context.Context, log logging.Logger, id models.Identity, payload string) (SubmitResult, error) {
	commit, err := w.client.SetAvatar(ctx, id.ID, payload)
	if err != nil {
		log.Error(ctx, "avatar submission failed", "error", err)
		return SubmitFailed, fmt.Errorf("set avatar: %w", err)
	}
	if !commit.Accepted {
		log.Warn(ctx, "avatar rejected by backend")
		return SubmitRejected, ErrAvatarRejected
	}

	// The backend has accepted; the local record must follow even if the
	// caller has gone away meanwhile.
	_, err = w.store.Update(context.WithoutCancel(ctx), func(cur models.Identity) (models.Identity, error) {
		if cur.ID != id.ID {
			return models.Identity{}, fmt.Errorf("identity changed during submission: %w", identity.ErrImmutableField)
		}
		return cur.WithAvatar(commit.CanonicalPayload)
	})
	switch {
	case err == nil:
		log.Info(ctx, "avatar committed")
		return SubmitCommitted, nil
	case errors.Is(err, models.ErrAvatarAlreadySet):
		log.Warn(ctx, "identity already had an avatar; keeping stored one")
		return SubmitCommitted, nil
	default:
		log.Error(ctx, "avatar accepted but identity update failed", "error", err)
		return SubmitFailed, fmt.Errorf("store avatar: %w", err)
	}
}

// Leave drops the current attempt: candidates and selection are discarded
// and any in-flight fetch or submission result no longer changes the
// workflow. A submission already accepted by the backend is still recorded
// in the identity store.
func (w *AvatarProvisioning) Leave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempt++
	w.state = StateLoading
	w.candidates = models.CandidateSet{}
	w.selected = noSelection
}

// State returns the current workflow state.
func (w *AvatarProvisioning) State() ProvisioningState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Candidates returns the candidate set while one is available.
func (w *AvatarProvisioning) Candidates() (models.CandidateSet, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateChoosing && w.state != StateSubmitting {
		return models.CandidateSet{}, false
	}
	return w.candidates, true
}

// Selected returns the selected candidate index, if any.
func (w *AvatarProvisioning) Selected() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected, w.selected != noSelection
}
