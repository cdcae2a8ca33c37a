package csvwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/opengd77-converter/internal/config"
	"github.com/ginjaninja78/opengd77-converter/internal/export"
	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

func digitalChannel() types.Channel {
	ch := types.NewChannel(1)
	ch.ChannelName = "DB0ABC"
	ch.ChannelType = types.ChannelDigital
	ch.RxFrequency = "438.500"
	ch.TxFrequency = "430.900"
	ch.ColourCode = "3"
	ch.Timeslot = "1"
	return ch
}

func TestRenderContacts(t *testing.T) {
	t.Parallel()

	data, err := RenderContacts([]types.Contact{
		{ContactName: "TG 91", ID: 91, IDType: types.IDTypeGroup, TSOverride: "None"},
		{ContactName: "A;B", ID: 2621234, IDType: types.IDTypePrivate, TSOverride: "None"},
	}, DefaultDelimiter)
	require.NoError(t, err)

	assert.Equal(t,
		"Contact Name;ID;ID Type;TS Override\n"+
			"TG 91;91;Group;None\n"+
			"\"A;B\";2621234;Private;None\n",
		string(data))
}

func TestRenderChannels(t *testing.T) {
	t.Parallel()

	data, err := RenderChannels([]types.Channel{digitalChannel()}, 0)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(ChannelHeaders, ";"), lines[0])

	fields := strings.Split(lines[1], ";")
	require.Len(t, fields, len(ChannelHeaders))
	assert.Equal(t,
		"1;DB0ABC;Digital;438.500;430.900;;3;1;None;None;None;Off;Off;;;Master;Master;No;No;No;180;Off;No;No;None;0;0;No",
		lines[1])
}

func TestWriter_WritesSelectedKinds(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "gd77")

	w, err := NewWriter(cfg)
	require.NoError(t, err)

	paths, err := w.Write(&export.Result{
		Contacts: []types.Contact{{ContactName: "TG 91", ID: 91, IDType: types.IDTypeGroup, TSOverride: "None"}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(cfg.OutputDir, "Contacts.csv")}, paths)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "Channels.csv"))
	assert.True(t, os.IsNotExist(err), "unselected kind is not written")

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Contact Name;ID;ID Type;TS Override\n"))
}

func TestWriter_NothingSelectedWritesNothing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "gd77")
	w := &Writer{Dir: dir, ContactsFile: "Contacts.csv", ChannelsFile: "Channels.csv"}

	_, err := w.Write(&export.Result{})
	assert.ErrorIs(t, err, types.ErrNothingSelected)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_IOError(t *testing.T) {
	t.Parallel()

	// The output "directory" is a regular file.
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	w := &Writer{Dir: blocker, ContactsFile: "Contacts.csv", ChannelsFile: "Channels.csv"}
	_, err := w.Write(&export.Result{Channels: []types.Channel{digitalChannel()}})
	assert.ErrorIs(t, err, types.ErrIO)
}
