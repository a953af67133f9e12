package sync

import (
	"context"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/ademchenko/nutrimirror/internal/model"
)

// fakeLocal is an in-memory LocalStore with write counters so tests
// can assert on caching side effects.
type fakeLocal struct {
	products  map[string]model.ProductRecord
	entries   map[string]model.ConsumptionEntry
	snapshots map[string]model.ProgressSnapshot
	favorites map[string]struct{}

	productUpserts  int
	entryUpserts    int
	entryBatches    int
	snapshotUpserts int
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{
		products:  make(map[string]model.ProductRecord),
		entries:   make(map[string]model.ConsumptionEntry),
		snapshots: make(map[string]model.ProgressSnapshot),
		favorites: make(map[string]struct{}),
	}
}

func entryKey(userID, productID string, date model.Date) string {
	return userID + "|" + productID + "|" + string(date)
}

func snapKey(userID string, date model.Date) string {
	return userID + "|" + string(date)
}

func (f *fakeLocal) GetProduct(_ context.Context, id string) (*model.ProductRecord, error) {
	if rec, ok := f.products[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeLocal) SearchProducts(_ context.Context, pattern string) ([]model.ProductRecord, error) {
	var out []model.ProductRecord
	for _, rec := range f.products {
		if strings.Contains(strings.ToLower(rec.Name), strings.ToLower(pattern)) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeLocal) ListProducts(_ context.Context, offset, limit int) ([]model.ProductRecord, error) {
	all := make([]model.ProductRecord, 0, len(f.products))
	for _, rec := range f.products {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeLocal) UpsertProduct(_ context.Context, rec *model.ProductRecord) error {
	f.productUpserts++
	f.products[rec.ID] = *rec
	return nil
}

func (f *fakeLocal) UpsertProducts(_ context.Context, recs []model.ProductRecord) error {
	for i := range recs {
		f.productUpserts++
		f.products[recs[i].ID] = recs[i]
	}
	return nil
}

func (f *fakeLocal) UpsertEntry(_ context.Context, entry *model.ConsumptionEntry) error {
	f.entryUpserts++
	f.entries[entryKey(entry.UserID, entry.ProductID, entry.Date)] = *entry
	return nil
}

func (f *fakeLocal) UpsertEntries(_ context.Context, entries []model.ConsumptionEntry) error {
	f.entryBatches++
	for i := range entries {
		e := entries[i]
		f.entries[entryKey(e.UserID, e.ProductID, e.Date)] = e
	}
	return nil
}

func (f *fakeLocal) DeleteEntry(_ context.Context, entry *model.ConsumptionEntry) error {
	delete(f.entries, entryKey(entry.UserID, entry.ProductID, entry.Date))
	return nil
}

func (f *fakeLocal) EntriesByDateRange(_ context.Context, userID string, start, end model.Date) ([]model.ConsumptionEntry, error) {
	var out []model.ConsumptionEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.Date.Before(start) && !end.Before(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeLocal) GetSnapshot(_ context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	if snap, ok := f.snapshots[snapKey(userID, date)]; ok {
		return &snap, nil
	}
	return nil, nil
}

func (f *fakeLocal) SnapshotsByDateRange(_ context.Context, userID string, start, end model.Date) ([]model.ProgressSnapshot, error) {
	var out []model.ProgressSnapshot
	for _, s := range f.snapshots {
		if s.UserID == userID && !s.Date.Before(start) && !end.Before(s.Date) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeLocal) UpsertSnapshot(_ context.Context, snap *model.ProgressSnapshot) error {
	f.snapshotUpserts++
	f.snapshots[snapKey(snap.UserID, snap.Date)] = *snap
	return nil
}

func (f *fakeLocal) UpsertSnapshots(_ context.Context, snaps []model.ProgressSnapshot) error {
	for i := range snaps {
		f.snapshotUpserts++
		f.snapshots[snapKey(snaps[i].UserID, snaps[i].Date)] = snaps[i]
	}
	return nil
}

func (f *fakeLocal) AddFavorite(_ context.Context, productID string) error {
	f.favorites[productID] = struct{}{}
	return nil
}

func (f *fakeLocal) RemoveFavorite(_ context.Context, productID string) error {
	delete(f.favorites, productID)
	return nil
}

func (f *fakeLocal) IsFavorite(_ context.Context, productID string) (bool, error) {
	_, ok := f.favorites[productID]
	return ok, nil
}

func (f *fakeLocal) ListFavorites(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.favorites))
	for id := range f.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// fakeRemote is an in-memory RemoteStore with per-method call
// counters and error injection.
type fakeRemote struct {
	products   map[string]model.ProductRecord
	listItems  []model.ProductRecord
	dayEntries map[string][]model.ConsumptionEntry
	snapshots  map[string]model.ProgressSnapshot
	favorites  map[string][]string

	failGetProduct   error
	failList         error
	failSearch       error
	failEntries      error
	failUpsertEntry  error
	failDeleteEntry  error
	failGetSnapshot  error
	failRange        error
	failSaveSnapshot error
	failFavoriteIDs  error
	failReplace      error

	getProductCalls  int
	listCalls        int
	searchCalls      int
	entriesCalls     int
	upsertEntryCalls int
	deleteEntryCalls int
	getSnapshotCalls int
	rangeCalls       int
	saveCalls        int
	favoriteIDCalls  int
	replaceCalls     int

	lastReplaced []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		products:   make(map[string]model.ProductRecord),
		dayEntries: make(map[string][]model.ConsumptionEntry),
		snapshots:  make(map[string]model.ProgressSnapshot),
		favorites:  make(map[string][]string),
	}
}

func (f *fakeRemote) GetProduct(_ context.Context, id string) (*model.ProductRecord, error) {
	f.getProductCalls++
	if f.failGetProduct != nil {
		return nil, f.failGetProduct
	}
	if rec, ok := f.products[id]; ok {
		return &rec, nil
	}
	return nil, model.ErrNotFound
}

// ListProducts serves listItems in order; the cursor is the numeric
// index of the next item, mimicking an opaque continuation token.
func (f *fakeRemote) ListProducts(_ context.Context, limit int, cursor string) ([]model.ProductRecord, string, error) {
	f.listCalls++
	if f.failList != nil {
		return nil, "", f.failList
	}

	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	if start >= len(f.listItems) {
		return nil, "", nil
	}
	end := start + limit
	if end > len(f.listItems) {
		end = len(f.listItems)
	}

	next := ""
	if end < len(f.listItems) {
		next = strconv.Itoa(end)
	}
	return f.listItems[start:end], next, nil
}

func (f *fakeRemote) SearchProducts(_ context.Context, prefix string) ([]model.ProductRecord, error) {
	f.searchCalls++
	if f.failSearch != nil {
		return nil, f.failSearch
	}
	var out []model.ProductRecord
	for _, rec := range f.products {
		if strings.HasPrefix(strings.ToLower(rec.Name), strings.ToLower(prefix)) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRemote) EntriesByDate(_ context.Context, userID string, date model.Date) ([]model.ConsumptionEntry, error) {
	f.entriesCalls++
	if f.failEntries != nil {
		return nil, f.failEntries
	}
	return f.dayEntries[snapKey(userID, date)], nil
}

func (f *fakeRemote) UpsertEntry(_ context.Context, entry *model.ConsumptionEntry) error {
	f.upsertEntryCalls++
	if f.failUpsertEntry != nil {
		return f.failUpsertEntry
	}
	key := snapKey(entry.UserID, entry.Date)
	day := f.dayEntries[key]
	for i := range day {
		if day[i].ProductID == entry.ProductID {
			day[i] = *entry
			f.dayEntries[key] = day
			return nil
		}
	}
	f.dayEntries[key] = append(day, *entry)
	return nil
}

func (f *fakeRemote) DeleteEntry(_ context.Context, entry *model.ConsumptionEntry) error {
	f.deleteEntryCalls++
	if f.failDeleteEntry != nil {
		return f.failDeleteEntry
	}
	key := snapKey(entry.UserID, entry.Date)
	day := f.dayEntries[key]
	for i := range day {
		if day[i].ProductID == entry.ProductID {
			f.dayEntries[key] = append(day[:i], day[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) GetSnapshot(_ context.Context, userID string, date model.Date) (*model.ProgressSnapshot, error) {
	f.getSnapshotCalls++
	if f.failGetSnapshot != nil {
		return nil, f.failGetSnapshot
	}
	if snap, ok := f.snapshots[snapKey(userID, date)]; ok {
		return &snap, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeRemote) SnapshotRange(_ context.Context, userID string, from, to model.Date) ([]model.ProgressSnapshot, error) {
	f.rangeCalls++
	if f.failRange != nil {
		return nil, f.failRange
	}
	var out []model.ProgressSnapshot
	for _, s := range f.snapshots {
		if s.UserID == userID && !s.Date.Before(from) && !to.Before(s.Date) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeRemote) SaveSnapshot(_ context.Context, snap *model.ProgressSnapshot) error {
	f.saveCalls++
	if f.failSaveSnapshot != nil {
		return f.failSaveSnapshot
	}
	f.snapshots[snapKey(snap.UserID, snap.Date)] = *snap
	return nil
}

func (f *fakeRemote) FavoriteIDs(_ context.Context, userID string) ([]string, error) {
	f.favoriteIDCalls++
	if f.failFavoriteIDs != nil {
		return nil, f.failFavoriteIDs
	}
	return f.favorites[userID], nil
}

func (f *fakeRemote) ReplaceFavorites(_ context.Context, userID string, productIDs []string) error {
	f.replaceCalls++
	if f.failReplace != nil {
		return f.failReplace
	}
	f.favorites[userID] = append([]string(nil), productIDs...)
	f.lastReplaced = append([]string(nil), productIDs...)
	return nil
}

// Interface conformance for the fakes themselves.
var (
	_ LocalStore  = (*fakeLocal)(nil)
	_ RemoteStore = (*fakeRemote)(nil)
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
