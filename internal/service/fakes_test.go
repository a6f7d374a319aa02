package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

var errStoreDown = errors.New("store down")

// memContent is an in-memory ContentRepository with the same ordering and
// active-only semantics as the SQL store.
type memContent struct {
	mu     sync.Mutex
	nodes  map[int64]*models.ContentNode
	nextID int64
	clock  time.Time

	translations *memTranslations

	// failDeleteOn makes SoftDelete fail for this ID.
	failDeleteOn int64
	writes       int
	listCalls    int
}

func newMemContent() *memContent {
	return &memContent{
		nodes: map[int64]*models.ContentNode{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memContent) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// add inserts a node directly, bypassing the service.
func (m *memContent) add(id int64, parentID *int64, nodeType string, sequence int) *models.ContentNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	n := &models.ContentNode{
		ID: id, ParentID: parentID, Type: nodeType, Sequence: sequence,
		CreatedAt: now, UpdatedAt: now,
	}
	m.nodes[id] = n
	if id > m.nextID {
		m.nextID = id
	}
	return n
}

func (m *memContent) get(id int64) models.ContentNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.nodes[id]
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memContent) activeChildren(parentID *int64) []*models.ContentNode {
	var out []*models.ContentNode
	for _, n := range m.nodes {
		if !n.IsDeleted && sameParent(n.ParentID, parentID) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memContent) ListChildren(_ context.Context, parentID *int64) ([]models.ChildNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	rows := []models.ChildNode{}
	for _, n := range m.activeChildren(parentID) {
		id := n.ID
		count := len(m.activeChildren(&id))
		rows = append(rows, models.ChildNode{ContentNode: *n, ChildCount: count, HasChildren: count > 0})
	}
	return rows, nil
}

func (m *memContent) sortedActive() []*models.ContentNode {
	var out []*models.ContentNode
	for _, n := range m.nodes {
		if !n.IsDeleted {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ParentID == nil && b.ParentID != nil:
			return true
		case a.ParentID != nil && b.ParentID == nil:
			return false
		case a.ParentID != nil && *a.ParentID != *b.ParentID:
			return *a.ParentID < *b.ParentID
		case a.Sequence != b.Sequence:
			return a.Sequence < b.Sequence
		}
		return a.ID < b.ID
	})
	return out
}

func (m *memContent) ListActive(context.Context) ([]models.ContentNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	rows := []models.ContentNode{}
	for _, n := range m.sortedActive() {
		rows = append(rows, *n)
	}
	return rows, nil
}

func (m *memContent) ListActiveWithLanguage(_ context.Context, languageCode string) ([]models.TreeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	rows := []models.TreeRow{}
	for _, n := range m.sortedActive() {
		row := models.TreeRow{ContentNode: *n}
		if m.translations != nil {
			if t, ok := m.translations.find(n.ID, languageCode); ok {
				row.LanguageCode = &t.LanguageCode
				row.Title = &t.Title
				row.Transliteration = &t.Transliteration
				row.Translation = &t.Translation
				row.OriginalText = &t.OriginalText
				row.SearchText = &t.SearchText
				row.TranslationUpdatedAt = &t.UpdatedAt
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *memContent) FindActive(_ context.Context, id int64) (*models.ContentNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok || n.IsDeleted {
		return nil, nil
	}
	c := *n
	return &c, nil
}

func (m *memContent) ParentOf(_ context.Context, id int64) (*int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, false, nil
	}
	return n.ParentID, true, nil
}

func (m *memContent) MaxSiblingSequence(_ context.Context, parentID *int64) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	siblings := m.activeChildren(parentID)
	if len(siblings) == 0 {
		return 0, false, nil
	}
	return siblings[len(siblings)-1].Sequence, true, nil
}

func (m *memContent) Insert(_ context.Context, parentID *int64, nodeType string, sequence int) (*models.ContentNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if parentID != nil {
		if _, ok := m.nodes[*parentID]; !ok {
			return nil, domain.Validationf("Parent content not found.")
		}
	}
	m.writes++
	m.nextID++
	now := m.tick()
	n := &models.ContentNode{
		ID: m.nextID, ParentID: parentID, Type: nodeType, Sequence: sequence,
		CreatedAt: now, UpdatedAt: now,
	}
	m.nodes[n.ID] = n
	c := *n
	return &c, nil
}

func (m *memContent) Update(_ context.Context, id int64, p models.ContentPatch) (*models.ContentNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok || n.IsDeleted {
		return nil, nil
	}
	m.writes++
	if p.ParentID.Present {
		n.ParentID = p.ParentID.Value
	}
	if p.Type.Present {
		n.Type = *p.Type.Value
	}
	if p.Sequence.Present {
		n.Sequence = *p.Sequence.Value
	}
	if p.AudioURL.Present {
		n.AudioURL = p.AudioURL.Value
	}
	if p.VideoURL.Present {
		n.VideoURL = p.VideoURL.Value
	}
	if p.CSS.Present {
		n.CSS = p.CSS.Value
	}
	if p.DuasURL.Present {
		n.DuasURL = p.DuasURL.Value
	}
	n.UpdatedAt = m.tick()
	c := *n
	return &c, nil
}

func (m *memContent) ActiveChildIDs(_ context.Context, parentID *int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, n := range m.activeChildren(parentID) {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (m *memContent) SoftDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failDeleteOn {
		return errStoreDown
	}
	m.writes++
	if n, ok := m.nodes[id]; ok {
		n.IsDeleted = true
		n.UpdatedAt = m.tick()
	}
	return nil
}

func (m *memContent) SetSequence(_ context.Context, id int64, sequence int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if n, ok := m.nodes[id]; ok {
		n.Sequence = sequence
		n.UpdatedAt = m.tick()
	}
	return nil
}

// memTranslations is an in-memory TranslationRepository.
type memTranslations struct {
	mu      sync.Mutex
	rows    []*models.Translation
	nextID  int64
	batches [][]int64
}

func (m *memTranslations) find(contentID int64, lang string) (models.Translation, bool) {
	for _, r := range m.rows {
		if r.ContentID == contentID && r.LanguageCode == lang {
			return *r, true
		}
	}
	return models.Translation{}, false
}

func (m *memTranslations) ListByContent(_ context.Context, contentID int64) ([]models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Translation{}
	for _, r := range m.rows {
		if r.ContentID == contentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LanguageCode < out[j].LanguageCode })
	return out, nil
}

func (m *memTranslations) Upsert(_ context.Context, contentID int64, lang string, f models.TranslationFields) (*models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ContentID == contentID && r.LanguageCode == lang {
			r.Title, r.Transliteration, r.Translation = f.Title, f.Transliteration, f.Translation
			r.OriginalText, r.SearchText = f.OriginalText, f.SearchText
			r.UpdatedAt = r.UpdatedAt.Add(time.Second)
			c := *r
			return &c, nil
		}
	}
	m.nextID++
	r := &models.Translation{
		ID: m.nextID, ContentID: contentID, LanguageCode: lang,
		Title: f.Title, Transliteration: f.Transliteration, Translation: f.Translation,
		OriginalText: f.OriginalText, SearchText: f.SearchText,
		UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m.rows = append(m.rows, r)
	c := *r
	return &c, nil
}

func (m *memTranslations) ListByContentIDs(_ context.Context, ids []int64) ([]models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, ids)
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Translation{}
	for _, r := range m.rows {
		if want[r.ContentID] {
			out = append(out, *r)
		}
	}
	return out, nil
}

// memVersions is an in-memory VersionRepository.
type memVersions struct {
	mu        sync.Mutex
	rows      []models.Version
	createErr error
}

func (m *memVersions) ExistsByNumber(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.rows {
		if v.VersionNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memVersions) Create(_ context.Context, v *models.Version) (*models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	c := *v
	c.ID = int64(len(m.rows) + 1)
	c.CreatedAt = time.Now()
	m.rows = append(m.rows, c)
	return &c, nil
}

func (m *memVersions) FindByID(_ context.Context, id int64) (*models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.rows {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memVersions) List(context.Context) ([]models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Version, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

// memArtifacts is an in-memory ArtifactStore.
type memArtifacts struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func (m *memArtifacts) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (m *memArtifacts) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, email, hash string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, domain.Conflictf("User already exists.")
		}
	}
	u := &models.User{ID: int64(len(m.users) + 1), Email: email, PasswordHash: hash, Role: role}
	m.users = append(m.users, u)
	c := *u
	return &c, nil
}

func (m *memUsers) SetTOTPSecret(_ context.Context, id int64, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.TOTPSecret = &secret
			u.TOTPEnabled = false
		}
	}
	return nil
}

func (m *memUsers) EnableTOTP(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.TOTPEnabled = true
		}
	}
	return nil
}

// memCache is an in-memory Cache that counts invalidations.
type memCache struct {
	mu            sync.Mutex
	entries       map[string]any
	invalidations int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]any{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return false
	}
	switch d := dest.(type) {
	case *[]models.ChildNode:
		*d = v.([]models.ChildNode)
	case *[]models.ContentNode:
		*d = v.([]models.ContentNode)
	case *[]models.TreeRow:
		*d = v.([]models.TreeRow)
	case *models.Stats:
		*d = *v.(*models.Stats)
	default:
		return false
	}
	return true
}

func (c *memCache) SetJSON(_ context.Context, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *memCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]any{}
	c.invalidations++
}

// memRevoker records revoked token IDs.
type memRevoker struct {
	revoked map[string]time.Time
}

func (m *memRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[id] = until
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
