package registry

import (
	"secure-print-release/internal/model"
	"secure-print-release/internal/util"
	"sync"
	"time"
)

// PrintTokenRegistry : at most one live print token per job; consumed tokens are remembered until they would have expired
type PrintTokenRegistry struct {
	mu     sync.Mutex
	tokens map[string]*model.PrintToken
	spent  map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewPrintTokenRegistry(ttl time.Duration, now func() time.Time) *PrintTokenRegistry {
	if now == nil {
		now = time.Now
	}
	return &PrintTokenRegistry{
		tokens: make(map[string]*model.PrintToken),
		spent:  make(map[string]time.Time),
		ttl:    ttl,
		now:    now,
	}
}

// Mint : replaces any previous token of the job
func (r *PrintTokenRegistry) Mint(jobID, clientIP string) (*model.PrintToken, error) {
	token, err := util.GeneratePrintToken()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry := &model.PrintToken{
		JobID:     jobID,
		Token:     token,
		ExpiresAt: now.Add(r.ttl),
		CreatedAt: now,
		ClientIP:  clientIP,
	}
	r.tokens[jobID] = entry
	r.pruneLocked(now)

	minted := *entry
	return &minted, nil
}

// Consume : marks the token used before any work on the document starts.
// Every rejection also drops the job's live entry.
func (r *PrintTokenRegistry) Consume(jobID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if token == "" {
		delete(r.tokens, jobID)
		return model.ErrPrintTokenMissing
	}

	if until, ok := r.spent[spentKey(jobID, token)]; ok && now.Before(until) {
		delete(r.tokens, jobID)
		return model.ErrPrintTokenUsed
	}

	entry, ok := r.tokens[jobID]
	switch {
	case !ok:
		return model.ErrPrintTokenInvalid
	case !util.TokensEqual(token, entry.Token):
		delete(r.tokens, jobID)
		return model.ErrPrintTokenInvalid
	case entry.Used:
		delete(r.tokens, jobID)
		return model.ErrPrintTokenUsed
	case !now.Before(entry.ExpiresAt):
		delete(r.tokens, jobID)
		return model.ErrPrintTokenExpired
	}

	entry.Used = true
	r.spent[spentKey(jobID, token)] = entry.ExpiresAt
	return nil
}

// Finish : drops the consumed token once streaming is over, whatever the outcome
func (r *PrintTokenRegistry) Finish(jobID, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.tokens[jobID]; ok && entry.Token == token {
		delete(r.tokens, jobID)
	}
}

// Revoke : drops the live token of a job, used when the job goes away
func (r *PrintTokenRegistry) Revoke(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, jobID)
}

func (r *PrintTokenRegistry) Get(jobID string) (model.PrintToken, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tokens[jobID]
	if !ok {
		return model.PrintToken{}, false
	}
	return *entry, true
}

// Prune : forgets expired tombstones and unused expired tokens
func (r *PrintTokenRegistry) Prune() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(r.now())
}

func (r *PrintTokenRegistry) pruneLocked(now time.Time) {
	for key, until := range r.spent {
		if !now.Before(until) {
			delete(r.spent, key)
		}
	}
	for jobID, entry := range r.tokens {
		if !entry.Used && !now.Before(entry.ExpiresAt) {
			delete(r.tokens, jobID)
		}
	}
}

func spentKey(jobID, token string) string {
	return jobID + "/" + token
}
