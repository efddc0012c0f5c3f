package scanner

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoclausen/steam-nfc-scanner/store"
)

// fakeReader hands out scripted UIDs, then reports cancellation.
type fakeReader struct {
	uids []string
}

func (f *fakeReader) Read(ctx context.Context) (string, error) {
	if len(f.uids) == 0 {
		return "", context.Canceled
	}
	uid := f.uids[0]
	f.uids = f.uids[1:]
	return uid, nil
}

func (f *fakeReader) Close() error {
	return nil
}

type fakeLauncher struct {
	urls []string
}

func (f *fakeLauncher) Launch(url string) {
	f.urls = append(f.urls, url)
}

type fakeEvents struct {
	scans, launches, unknowns []string
}

func (f *fakeEvents) PublishScan(uid string) { f.scans = append(f.scans, uid) }
func (f *fakeEvents) PublishLaunch(uid, appid, name string) {
	f.launches = append(f.launches, uid+"/"+appid)
}
func (f *fakeEvents) PublishUnknown(uid string) { f.unknowns = append(f.unknowns, uid) }

func newTestListener(t *testing.T, m store.Mapping, uids ...string) (*Listener, *fakeLauncher, *fakeEvents, *store.Store) {
	t.Helper()

	st := store.New(filepath.Join(t.TempDir(), "mappings.json"))
	if m != nil {
		require.NoError(t, st.Save(m))
	}

	fl := &fakeLauncher{}
	fe := &fakeEvents{}
	l := NewListener(&fakeReader{uids: uids}, st, fl, fe)
	l.cycleDelay = 0
	return l, fl, fe, st
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	orig := log.Writer()
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(orig) })
	return buf
}

func TestListenerLaunchesMappedTag(t *testing.T) {
	l, fl, fe, _ := newTestListener(t,
		store.Mapping{"04A29F": {AppID: "730", Name: "CS2"}},
		"04A29F")
	logs := captureLog(t)

	require.NoError(t, l.Run(context.Background()))

	require.Equal(t, []string{"steam://rungameid/730"}, fl.urls)
	assert.Equal(t, []string{"04A29F"}, fe.scans)
	assert.Equal(t, []string{"04A29F/730"}, fe.launches)
	assert.Empty(t, fe.unknowns)

	assert.Contains(t, logs.String(), "04A29F")
	assert.Contains(t, logs.String(), "730")
	assert.Contains(t, logs.String(), "CS2")
}

func TestListenerIgnoresUnmappedTag(t *testing.T) {
	l, fl, fe, _ := newTestListener(t, store.Mapping{}, "AABBCC")
	logs := captureLog(t)

	require.NoError(t, l.Run(context.Background()))

	assert.Empty(t, fl.urls)
	assert.Equal(t, []string{"AABBCC"}, fe.unknowns)
	assert.Contains(t, logs.String(), "no mapping")
}

func TestListenerSurvivesMissingStore(t *testing.T) {
	// Store file never created: lookup degrades to empty, loop continues.
	l, fl, _, _ := newTestListener(t, nil, "04A29F", "04A29F")
	captureLog(t)

	require.NoError(t, l.Run(context.Background()))
	assert.Empty(t, fl.urls)
}

func TestListenerPicksUpFreshRegistrations(t *testing.T) {
	l, fl, _, st := newTestListener(t, store.Mapping{}, "04A29F")
	captureLog(t)

	// Registration lands between listener start and tag contact; the
	// per-contact reload must see it.
	require.NoError(t, st.Save(store.Mapping{"04A29F": {AppID: "440", Name: "TF2"}}))

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []string{"steam://rungameid/440"}, fl.urls)
}

func TestListenerContainsLaunchPanic(t *testing.T) {
	l, _, _, _ := newTestListener(t,
		store.Mapping{"04A29F": {AppID: "730", Name: "CS2"}},
		"04A29F", "04A29F")
	panicking := &panicLauncher{}
	l.launcher = panicking
	logs := captureLog(t)

	require.NoError(t, l.Run(context.Background()))

	// Both contacts were attempted; the first panic did not end the loop.
	assert.Equal(t, 2, panicking.calls)
	assert.Contains(t, logs.String(), "panic")
}

type panicLauncher struct {
	calls int
}

func (p *panicLauncher) Launch(url string) {
	p.calls++
	panic("shim exploded")
}

func TestListenerStopsOnCancel(t *testing.T) {
	l, fl, _, _ := newTestListener(t, store.Mapping{})
	captureLog(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Run(ctx))
	assert.Empty(t, fl.urls)
}
