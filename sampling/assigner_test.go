package sampling

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/internal/testutil"
	"github.com/arloliu/subsample/registry"
	"github.com/arloliu/subsample/strategy"
	"github.com/arloliu/subsample/table"
	"github.com/arloliu/subsample/types"
)

func writePapers(t *testing.T, papers []testutil.Paper) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "papers.parquet")
	testutil.WriteParquet(t, path, papers)

	return path
}

func assign(t *testing.T, cfg *Config, path string, batchSize int) (*Assigner, *registry.Registry) {
	t.Helper()

	a, err := NewAssigner(cfg)
	require.NoError(t, err)

	r, err := table.Open(path, table.WithBatchSize(batchSize))
	require.NoError(t, err)
	defer r.Close()

	reg, err := a.Assign(context.Background(), r)
	require.NoError(t, err)

	return a, reg
}

func members(t *testing.T, reg *registry.Registry, i int) []int64 {
	t.Helper()

	set, err := reg.Set(i)
	require.NoError(t, err)

	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	return ids
}

func tenEntities() []testutil.Paper {
	papers := make([]testutil.Paper, 10)
	for i := range papers {
		id := int64(i + 1)
		papers[i] = testutil.Paper{PaperID: id, Title: "p", HasMentions: id%2 == 1}
	}

	return papers
}

func TestAssigner_TenEntities(t *testing.T) {
	path := writePapers(t, tenEntities())

	a, reg := assign(t, &Config{Fractions: []float64{0.4, 0.4}, Seed: 42}, path, 4)

	t.Run("partitions are disjoint subsets of the qualifiers", func(t *testing.T) {
		require.NoError(t, reg.Validate())
		require.LessOrEqual(t, reg.Total(), 5)

		qualifiers := map[int64]bool{1: true, 3: true, 5: true, 7: true, 9: true}
		for i := range reg.Len() {
			for _, id := range members(t, reg, i) {
				require.True(t, qualifiers[id], "id %d is not a qualifier", id)
			}
		}
	})

	t.Run("matches the seed 42 random.random sequence", func(t *testing.T) {
		// draws: 0.639, 0.025, 0.275, 0.223, 0.736 against thresholds [0.4, 0.8]
		require.ElementsMatch(t, []int64{3, 5, 7}, members(t, reg, 0))
		require.ElementsMatch(t, []int64{1, 9}, members(t, reg, 1))
	})

	t.Run("stats", func(t *testing.T) {
		stats := a.Stats()
		require.Equal(t, int64(10), stats.RowsScanned)
		require.Equal(t, int64(5), stats.Qualifying)
		require.Equal(t, int64(0), stats.Unsampled)
		require.Equal(t, []int{3, 2}, stats.Sizes)
		require.Equal(t, reg.Digest(), stats.Digest)
	})

	t.Run("registry is frozen", func(t *testing.T) {
		require.True(t, reg.Frozen())
		require.ErrorIs(t, reg.Add(0, 2), types.ErrRegistryFrozen)
	})
}

func TestAssigner_Determinism(t *testing.T) {
	path := writePapers(t, testutil.Papers(5000, 3))

	for _, name := range strategy.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := strategy.Parse(name)
			require.NoError(t, err)

			cfg := func() *Config {
				return &Config{Fractions: []float64{0.1, 0.2}, Seed: 7, Strategy: s}
			}

			a1, reg1 := assign(t, cfg(), path, 256)
			a2, reg2 := assign(t, cfg(), path, 1000)

			require.Equal(t, reg1.Sizes(), reg2.Sizes())
			require.Equal(t, reg1.Digest(), reg2.Digest())
			require.Equal(t, a1.Stats(), a2.Stats())

			other := cfg()
			other.Seed = 8
			_, reg3 := assign(t, other, path, 256)
			require.NotEqual(t, reg1.Digest(), reg3.Digest())
		})
	}

	t.Run("repeated Assign on one assigner starts a fresh stream", func(t *testing.T) {
		a, err := NewAssigner(&Config{Fractions: []float64{0.3}, Seed: 1})
		require.NoError(t, err)

		digests := make([]uint64, 2)
		for i := range digests {
			r, err := table.Open(path)
			require.NoError(t, err)
			reg, err := a.Assign(context.Background(), r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			digests[i] = reg.Digest()
		}
		require.Equal(t, digests[0], digests[1])
	})
}

func TestAssigner_NonQualifiersConsumeNoDraw(t *testing.T) {
	onlyQualifiers := make([]testutil.Paper, 0, 200)
	interleaved := make([]testutil.Paper, 0, 600)
	for i := range 200 {
		id := int64(i*3 + 1)
		onlyQualifiers = append(onlyQualifiers, testutil.Paper{PaperID: id, HasMentions: true})
		interleaved = append(interleaved,
			testutil.Paper{PaperID: id + 1000000, HasMentions: false},
			testutil.Paper{PaperID: id, HasMentions: true},
			testutil.Paper{PaperID: id + 2000000, HasMentions: false},
		)
	}

	cfg := func() *Config { return &Config{Fractions: []float64{0.25, 0.25}, Seed: 42} }
	_, regA := assign(t, cfg(), writePapers(t, onlyQualifiers), 64)
	_, regB := assign(t, cfg(), writePapers(t, interleaved), 64)

	require.Equal(t, regA.Digest(), regB.Digest())
}

func TestAssigner_Proportionality(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large fixture in short mode")
	}

	const n = 100000
	path := writePapers(t, testutil.Papers(n, 1))

	for _, name := range strategy.Names() {
		t.Run(name, func(t *testing.T) {
			s, err := strategy.Parse(name)
			require.NoError(t, err)

			fractions := []float64{0.01, 0.05}
			_, reg := assign(t, &Config{Fractions: fractions, Seed: 42, Strategy: s}, path, 1<<14)

			require.NoError(t, reg.Validate())
			for i, f := range fractions {
				expected := f * n
				got := float64(reg.Sizes()[i])
				require.InDelta(t, expected, got, 0.2*expected, "partition %d", i)
			}
		})
	}
}

func TestAssigner_Errors(t *testing.T) {
	t.Run("invalid fractions", func(t *testing.T) {
		_, err := NewAssigner(&Config{Fractions: []float64{0.7, 0.7}})
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)

		_, err = NewAssigner(&Config{})
		require.Error(t, err)
	})

	t.Run("missing flag column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mentions.parquet")
		testutil.WriteParquet(t, path, []testutil.Mention{{PaperID: 1, Seq: 1, Text: "m"}})

		a, err := NewAssigner(&Config{Fractions: []float64{0.5}})
		require.NoError(t, err)

		r, err := table.Open(path)
		require.NoError(t, err)
		defer r.Close()

		reg, err := a.Assign(context.Background(), r)
		require.Nil(t, reg)
		require.ErrorIs(t, err, types.ErrSchemaMismatch)

		var te *types.TableError
		require.ErrorAs(t, err, &te)
		require.Equal(t, "papers", te.Table)
		require.Equal(t, path, te.Path)
	})

	t.Run("wrong id column name", func(t *testing.T) {
		path := writePapers(t, testutil.Papers(3, 1))

		a, err := NewAssigner(&Config{Fractions: []float64{0.5}, IDColumn: "corpus_id"})
		require.NoError(t, err)

		r, err := table.Open(path)
		require.NoError(t, err)
		defer r.Close()

		_, err = a.Assign(context.Background(), r)
		require.ErrorIs(t, err, types.ErrSchemaMismatch)
	})

	t.Run("read failure mid stream", func(t *testing.T) {
		path := writePapers(t, testutil.Papers(50, 1))
		rows, schema := testutil.OpenRows(t, path)
		r := table.NewReader(&testutil.FailingRowReader{Rows: rows, After: 20}, schema, table.WithBatchSize(10))

		a, err := NewAssigner(&Config{Fractions: []float64{0.5}})
		require.NoError(t, err)

		reg, err := a.Assign(context.Background(), r)
		require.Nil(t, reg)
		require.ErrorIs(t, err, types.ErrSourceRead)

		var te *types.TableError
		require.ErrorAs(t, err, &te)
		require.Equal(t, int64(20), te.Row)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writePapers(t, testutil.Papers(10, 1))

		a, err := NewAssigner(&Config{Fractions: []float64{0.5}})
		require.NoError(t, err)

		r, err := table.Open(path)
		require.NoError(t, err)
		defer r.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = a.Assign(ctx, r)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAssigner_NullFlagIsFalse(t *testing.T) {
	yes := true
	no := false
	papers := []testutil.NullablePaper{
		{PaperID: 1, HasMentions: &yes},
		{PaperID: 2},
		{PaperID: 3, HasMentions: &no},
		{PaperID: 4, HasMentions: &yes},
	}
	path := filepath.Join(t.TempDir(), "papers.parquet")
	testutil.WriteParquet(t, path, papers)

	a, reg := assign(t, &Config{Fractions: []float64{1}, Seed: 42}, path, 10)

	require.Equal(t, int64(2), a.Stats().Qualifying)
	require.ElementsMatch(t, []int64{1, 4}, members(t, reg, 0))
}
