package seqio

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imperial-iGEM/synbio/internal/subclone"
)

const genbankFile = `LOCUS       pKan                      40 bp    DNA     circular SYN 01-JAN-2020
DEFINITION  a backbone.
FEATURES             Location/Qualifiers
     CDS             5..35
                     /label="KanR"
                     /note="kanamycin
                     resistance"
     misc_feature    complement(1..4)
                     /label=oh
     rep_origin      join(38..40,1..2)
ORIGIN
        1 atccttgaca attaatcatc ggcatagtat atcggaacg
       41 g
//
LOCUS       part0                     12 bp    DNA     linear   SYN 01-JAN-2020
FEATURES             Location/Qualifiers
ORIGIN
        1 aaagaattca aa
//
`

func TestReadGenbank(t *testing.T) {
	records, err := ReadGenbank("test.gb", genbankFile)
	require.NoError(t, err)
	require.Len(t, records, 2)

	pKan := records[0]
	assert.Equal(t, "pKan", pKan.ID)
	assert.True(t, pKan.Circular)
	assert.Equal(t, "ATCCTTGACAATTAATCATCGGCATAGTATATCGGAACGG", pKan.Seq)
	assert.Equal(t, []subclone.Feature{
		{Type: "CDS", Start: 4, End: 35, Qualifiers: map[string][]string{"label": {"KanR"}, "note": {"kanamycin resistance"}}},
		{Type: "misc_feature", Start: 0, End: 4, Qualifiers: map[string][]string{"label": {"oh"}}},
		{Type: "rep_origin", Start: 37, End: 42, Qualifiers: map[string][]string{}},
	}, pKan.Features)

	part0 := records[1]
	assert.Equal(t, "part0", part0.ID)
	assert.False(t, part0.Circular)
	assert.Equal(t, "AAAGAATTCAAA", part0.Seq)
	assert.Empty(t, part0.Features)
}

func TestReadGenbank_malformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"no origin", "LOCUS       x  4 bp\nFEATURES\n//\n"},
		{"no locus", "DEFINITION  .\nORIGIN\n        1 aaaa\n//\n"},
		{"empty", "\n"},
		{"bad location", "LOCUS       x  4 bp\nFEATURES             Location/Qualifiers\n     CDS             unknown\nORIGIN\n        1 aaaa\n//\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGenbank("test.gb", tt.contents)
			assert.Error(t, err)
		})
	}
}

func TestReadFasta(t *testing.T) {
	type args struct {
		contents string
	}
	tests := []struct {
		name    string
		args    args
		want    []*subclone.Record
		wantErr bool
	}{
		{
			"multifasta",
			args{">a circular plasmid\nggtctc\nAAAA\n\n>b\nacgt-n\n"},
			[]*subclone.Record{
				{ID: "a", Seq: "GGTCTCAAAA", Circular: true},
				{ID: "b", Seq: "ACGTN"},
			},
			false,
		},
		{
			"windows line endings",
			args{">a\r\nACGT\r\nACGT\r\n"},
			[]*subclone.Record{{ID: "a", Seq: "ACGTACGT"}},
			false,
		},
		{
			"no records",
			args{"ACGT\n"},
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFasta("test.fa", tt.args.contents)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoRecords)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
		return path
	}

	fasta := write("parts.fasta", ">a\nACGT\n")
	gb := write("backbone.gbk", genbankFile)
	noExt := write("headered", ">b circular\nTTTT\n")
	unknown := write("notes.txt", "some notes")

	records, err := Read(fasta)
	require.NoError(t, err)
	assert.Equal(t, "a", records[0].ID)

	records, err = Read(gb)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = Read(noExt)
	require.NoError(t, err)
	assert.True(t, records[0].Circular)

	_, err = Read(unknown)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Read(filepath.Join(dir, "missing.fa"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	files, err := ReadAll([]string{fasta, gb})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Len(t, files[1], 2)
}

func TestWriteGenbank(t *testing.T) {
	records := []*subclone.Record{
		{
			ID:       "backbone+part0",
			Seq:      strings.Repeat("ACGTTGCA", 20),
			Circular: true,
			Features: []subclone.Feature{
				{Type: "CDS", Start: 10, End: 70, Qualifiers: map[string][]string{"label": {"KanR"}, "gene": {"aph"}}},
				{Type: "rep_origin", Start: 150, End: 170, Qualifiers: map[string][]string{"label": {"ori"}}},
			},
		},
		{ID: "stub", Seq: "ACGTACGTAC", Features: []subclone.Feature{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGenbank(&buf, records, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, buf.String(), "02-JAN-2020")
	assert.Contains(t, buf.String(), "join(151..160,1..10)")

	got, err := ReadGenbank("out.gb", buf.String())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[0])
	assert.Equal(t, records[1].ID, got[1].ID)
	assert.Equal(t, records[1].Seq, got[1].Seq)
	assert.False(t, got[1].Circular)
}

func TestWriteFasta(t *testing.T) {
	records := []*subclone.Record{
		{ID: "a", Seq: strings.Repeat("A", 100), Circular: true},
		{ID: "b", Seq: "CCCC"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFasta(&buf, records))
	assert.Equal(t, ">a circular\n"+strings.Repeat("A", 80)+"\n"+strings.Repeat("A", 20)+"\n>b\nCCCC\n", buf.String())

	got, err := ReadFasta("out.fa", buf.String())
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	assemblies := []subclone.Assembly{
		{Plasmids: []*subclone.Record{{ID: "p1", Seq: "ACGTACGT", Circular: true}}},
		{Plasmids: []*subclone.Record{{ID: "p2", Seq: "TTTTGGGG", Circular: true}}},
	}

	for _, name := range []string{"plasmids.fa", "plasmids.gb"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Write(path, assemblies))

			records, err := Read(path)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "p1", records[0].ID)
			assert.Equal(t, "TTTTGGGG", records[1].Seq)
			assert.True(t, records[1].Circular)

			// rewriting the same file replaces it
			require.NoError(t, Write(path, assemblies[:1]))
			records, err = Read(path)
			require.NoError(t, err)
			assert.Len(t, records, 1)
		})
	}

	err := Write(filepath.Join(dir, "missing", "plasmids.fa"), assemblies)
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestWriteJSON(t *testing.T) {
	enzymes, err := subclone.EnzymesByName("BsaI")
	require.NoError(t, err)

	assemblies := []subclone.Assembly{{
		Plasmids:  []*subclone.Record{{ID: "p1", Seq: "ACGTACGT", Circular: true}},
		Fragments: []*subclone.Fragment{{ID: "a", Seq: "ACGT", Left: "^ACGT", Right: "^ACGT"}, {ID: "b", Seq: "ACGT", Left: "^ACGT", Right: "^ACGT"}},
	}}
	binErr := errors.Join(errors.New("bin 1 failed"), errors.New("bin 2 failed"))
	out := NewOutput("run", time.Now(), enzymes, 3, assemblies, binErr)

	path := filepath.Join(t.TempDir(), "out.json")
	written, err := WriteJSON(path, out)
	require.NoError(t, err)

	var got Output
	require.NoError(t, json.Unmarshal(written, &got))
	assert.Equal(t, "run", got.RunID)
	assert.Equal(t, []string{"BsaI GGTCTCN^NNNN_"}, got.Enzymes)
	assert.Equal(t, 3, got.Bins)
	assert.Equal(t, []string{"bin 1 failed", "bin 2 failed"}, got.Errors)
	require.Len(t, got.Solutions, 1)
	assert.Equal(t, 2, got.Solutions[0].Count)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, written, onDisk)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.gb", "b.fa", filepath.Join("sub", "c.gb")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(">x\nA\n"), 0o644))
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  error
	}{
		{
			"plain paths are kept",
			[]string{"missing.gb", filepath.Join(dir, "a.gb")},
			[]string{"missing.gb", filepath.Join(dir, "a.gb")},
			nil,
		},
		{
			"single directory",
			[]string{filepath.Join(dir, "*.gb")},
			[]string{filepath.Join(dir, "a.gb")},
			nil,
		},
		{
			"any depth",
			[]string{filepath.Join(dir, "**.gb")},
			[]string{filepath.Join(dir, "a.gb"), filepath.Join(dir, "sub", "c.gb")},
			nil,
		},
		{
			"alternatives without repeats",
			[]string{filepath.Join(dir, "*.{gb,fa}"), filepath.Join(dir, "a.gb")},
			[]string{filepath.Join(dir, "a.gb"), filepath.Join(dir, "b.fa")},
			nil,
		},
		{
			"no matches",
			[]string{filepath.Join(dir, "*.fasta")},
			nil,
			ErrNoMatches,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.patterns)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
