package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/iajur/internal/db"
)

// --- client.go ---

func TestPing_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	if err := NewStoreForTest(c).Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	if err := NewStoreForTest(c).Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- kv.go ---

func TestGet_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "emb:abc")).
		Return(mock.Result(mock.RedisString("payload")))

	got, err := NewStoreForTest(c).Get(context.Background(), "emb:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("got %q, want payload", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	_, err := NewStoreForTest(c).Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.ErrorResult(errors.New("conn reset")))

	_, err := NewStoreForTest(c).Get(context.Background(), "k")
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := NewStoreForTest(c).Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "3600")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := NewStoreForTest(c).SetWithTTL(context.Background(), "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go ---

func legalIndex() *db.IndexDefinition {
	return db.NewIndex("legal_documents").
		Prefix("legal_documents:").
		Text("title").
		Text("content").
		VectorHNSW("vector", 4, db.DistanceCosine, 16, 200).
		MustBuild()
}

func TestCreateIndex_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.CREATE", "legal_documents", "ON", "HASH",
			"PREFIX", "1", "legal_documents:",
			"SCHEMA",
			"title", "TEXT",
			"content", "TEXT",
			"vector", "VECTOR", "HNSW", "10",
			"TYPE", "FLOAT32", "DIM", "4", "DISTANCE_METRIC", "COSINE",
			"M", "16", "EF_CONSTRUCTION", "200",
		)).
		Return(mock.Result(mock.RedisString("OK")))

	if err := NewStoreForTest(c).CreateIndex(context.Background(), legalIndex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.Result(mock.RedisError("Index already exists")))

	err := NewStoreForTest(c).CreateIndex(context.Background(), legalIndex())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	err := NewStoreForTest(c).CreateIndex(context.Background(), &db.IndexDefinition{Name: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "legal_documents")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	err := NewStoreForTest(c).DropIndex(context.Background(), "legal_documents")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name   string
		result rueidis.RedisResult
		want   bool
	}{
		{"present", mock.Result(mock.RedisArray(mock.RedisString("index_name"))), true},
		{"absent", mock.Result(mock.RedisError("Unknown index name")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mock.NewClient(gomock.NewController(t))
			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "legal_documents")).
				Return(tt.result)

			got, err := NewStoreForTest(c).IndexExists(context.Background(), "legal_documents")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("exists = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- documents.go ---

func TestUpsertDocuments_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			first := cmds[0].Commands()
			want := []string{"HSET", "legal_documents:nt-1", "content", "texto", "title", "Nota 1", "vector"}
			for i, w := range want {
				if first[i] != w {
					t.Errorf("cmd[%d] = %q, want %q", i, first[i], w)
				}
			}
			return []rueidis.RedisResult{
				mock.Result(mock.RedisInt64(3)),
				mock.Result(mock.RedisInt64(2)),
			}
		})

	err := NewStoreForTest(c).UpsertDocuments(context.Background(), "legal_documents", []db.Document{
		{ID: "nt-1", Fields: map[string]string{"title": "Nota 1", "content": "texto"}, Vector: []float32{1, 0}},
		{ID: "nt-2", Fields: map[string]string{"title": "Nota 2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertDocuments_Empty(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	if err := NewStoreForTest(c).UpsertDocuments(context.Background(), "idx", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertDocuments_MissingID(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	err := NewStoreForTest(c).UpsertDocuments(context.Background(), "idx", []db.Document{{Fields: map[string]string{"a": "b"}}})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestUpsertDocuments_Error(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(errors.New("OOM"))})

	err := NewStoreForTest(c).UpsertDocuments(context.Background(), "idx", []db.Document{{ID: "a"}})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- search.go ---

func TestSearchKNN_Success(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "legal_documents" &&
				cmd[2] == "*=>[KNN 5 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("legal_documents:nt-1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("0.1"),
				mock.RedisString("title"), mock.RedisString("Licença capacitação"),
				mock.RedisString("vector"), mock.RedisString("\x00\x00\x80?"),
			),
			mock.RedisString("legal_documents:nt-2"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("1.4"),
				mock.RedisString("content"), mock.RedisString("texto"),
			),
		)))

	res, err := NewStoreForTest(c).SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "legal_documents",
		Vector:    []float32{0.1, 0.2},
		K:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("total=%d entries=%d, want 2/2", res.Total, len(res.Entries))
	}
	first := res.Entries[0]
	if first.Key != "legal_documents:nt-1" {
		t.Errorf("key = %q", first.Key)
	}
	if math.Abs(first.Score-0.9) > 1e-9 {
		t.Errorf("score = %f, want 0.9", first.Score)
	}
	if _, ok := first.Fields["vector"]; ok {
		t.Error("vector field should be stripped")
	}
	if _, ok := first.Fields["__vector_score"]; ok {
		t.Error("score field should be stripped")
	}
	if first.Fields["title"] != "Licença capacitação" {
		t.Errorf("title = %q", first.Fields["title"])
	}
	// distance above 1 clamps to zero similarity
	if res.Entries[1].Score != 0 {
		t.Errorf("score = %f, want 0", res.Entries[1].Score)
	}
}

func TestSearchKNN_ReturnFields(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[3] == "RETURN" && cmd[4] == "3" &&
				cmd[5] == "title" && cmd[6] == "content" && cmd[7] == "__vector_score"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	res, err := NewStoreForTest(c).SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "legal_documents",
		Vector:       []float32{1},
		K:            3,
		ReturnFields: []string{"title", "content"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(res.Entries))
	}
}

func TestSearchKNN_Error(t *testing.T) {
	c := mock.NewClient(gomock.NewController(t))
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("boom")))

	_, err := NewStoreForTest(c).SearchKNN(context.Background(), &db.KNNQuery{IndexName: "i", Vector: []float32{1}, K: 1})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(mock.NewClient(gomock.NewController(t)))
	for name, q := range map[string]*db.KNNQuery{
		"no index":  {Vector: []float32{1}, K: 1},
		"no vector": {IndexName: "i", K: 1},
		"zero k":    {IndexName: "i", Vector: []float32{1}},
	} {
		if _, err := s.SearchKNN(context.Background(), q); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestVectorToBytes(t *testing.T) {
	b := vectorToBytes([]float32{1.0, -2.5})
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32([]byte(b[4:]))); got != -2.5 {
		t.Errorf("second value = %v, want -2.5", got)
	}
}

func TestIsRedisErr(t *testing.T) {
	err := mock.Result(mock.RedisError("ERR Index Already Exists")).Error()
	if !isRedisErr(err, "index already exists") {
		t.Error("expected case-insensitive match")
	}
	if isRedisErr(errors.New("index already exists"), "index already exists") {
		t.Error("non-redis error should not match")
	}
}

// isDBError reports whether err wraps a db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
