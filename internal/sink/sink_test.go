package sink

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/datagridgo/internal/engine"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/zclconf/go-cty/cty"
)

var testColumns = []Column{
	{Name: "id", Type: cty.Number},
	{Name: "name", Type: cty.String},
	{Name: "active", Type: cty.Bool},
}

func testRows() []engine.Row {
	return []engine.Row{
		{"id": cty.NumberIntVal(1), "name": cty.StringVal("Ann"), "active": cty.True},
		{"id": cty.NumberIntVal(2), "name": cty.NullVal(cty.String), "active": cty.False},
	}
}

func TestEncoders(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		format string
		rows   []engine.Row
		want   string
	}{
		{
			format: "json",
			rows:   testRows(),
			want: "[\n" +
				"  {\"id\":1,\"name\":\"Ann\",\"active\":true},\n" +
				"  {\"id\":2,\"name\":null,\"active\":false}\n" +
				"]\n",
		},
		{format: "json", rows: nil, want: "[]\n"},
		{
			format: "jsonl",
			rows:   testRows(),
			want: "{\"id\":1,\"name\":\"Ann\",\"active\":true}\n" +
				"{\"id\":2,\"name\":null,\"active\":false}\n",
		},
		{
			format: "yaml",
			rows:   testRows(),
			want: "- id: 1\n" +
				"  name: Ann\n" +
				"  active: true\n" +
				"- id: 2\n" +
				"  name: null\n" +
				"  active: false\n",
		},
		{format: "yaml", rows: nil, want: "[]\n"},
		{
			format: "csv",
			rows:   testRows(),
			want:   "id,name,active\n1,Ann,true\n2,,false\n",
		},
		{
			format: "text",
			rows:   testRows()[:1],
			want: "row 0:\n" +
				"      id = \"1\"\n" +
				"      name = \"Ann\"\n" +
				"      active = \"true\"\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			t.Parallel()
			enc, err := encoderFor(tc.format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, enc.Encode(&buf, testColumns, tc.rows))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestEncoderFor_Unknown(t *testing.T) {
	t.Parallel()
	_, err := encoderFor("xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, generr.ErrConfiguration)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestEncoders_CollectionValues(t *testing.T) {
	t.Parallel()
	cols := []Column{{Name: "tags", Type: cty.List(cty.String)}}
	rows := []engine.Row{{"tags": cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})}}

	var csvBuf, yamlBuf bytes.Buffer
	require.NoError(t, csvEncoder{}.Encode(&csvBuf, cols, rows))
	require.NoError(t, yamlEncoder{}.Encode(&yamlBuf, cols, rows))

	assert.Equal(t, "tags\n\"[\"\"a\"\",\"\"b\"\"]\"\n", csvBuf.String())
	assert.Equal(t, "- tags:\n    - a\n    - b\n", yamlBuf.String())
}

func TestCtyToNative_Numbers(t *testing.T) {
	t.Parallel()

	got, err := ctyToNative(cty.NumberIntVal(1 << 60))
	require.NoError(t, err)
	assert.Equal(t, int64(1<<60), got)

	got, err = ctyToNative(cty.NumberFloatVal(1.5))
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	_, err = ctyToNative(cty.UnknownVal(cty.String))
	require.Error(t, err)
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"":                        "json",
		"-":                       "json",
		"out/people.json":         "json",
		"people.JSONL":            "jsonl",
		"people.ndjson":           "jsonl",
		"people.yml":              "yaml",
		"people.yaml":             "yaml",
		"people.csv":              "csv",
		"people.txt":              "text",
		"s3://bucket/people.csv":  "csv",
		"sqlite::memory:":         "sql",
		"postgres://u@h/db":       "sql",
		"postgresql://u@h/db":     "sql",
		"mysql://u:p@h:3306/db":   "sql",
		"https://example.com/in":  "json",
	}
	for target, want := range testCases {
		assert.Equal(t, want, inferFormat(target), target)
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "postgres://***@db:5432/app", redact("postgres://user:secret@db:5432/app"))
	assert.Equal(t, "people.json", redact("people.json"))
	assert.Equal(t, "sqlite::memory:", redact("sqlite::memory:"))
}

func TestNew_Stdout(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	w, err := New(context.Background(), Options{Format: "csv", Target: "-", Stdout: &out})
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), testColumns, testRows()))
	require.NoError(t, w.Close())
	assert.Equal(t, "id,name,active\n1,Ann,true\n2,,false\n", out.String())
}

func TestNew_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "people.jsonl")

	w, err := New(context.Background(), Options{Target: path})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), testColumns, testRows()[:1]))
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"name\":\"Ann\",\"active\":true}\n", string(got))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestNew_S3(t *testing.T) {
	t.Parallel()
	putter := &fakePutter{}

	w, err := New(context.Background(), Options{Target: "s3://data/exports/people.json", S3: putter})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), testColumns, testRows()[:1]))
	require.NoError(t, w.Close())

	require.NotNil(t, putter.input)
	assert.Equal(t, "data", *putter.input.Bucket)
	assert.Equal(t, "exports/people.json", *putter.input.Key)
	assert.Equal(t, "application/json", *putter.input.ContentType)
	assert.Equal(t, int64(len(putter.body)), *putter.input.ContentLength)
	assert.Equal(t, "[\n  {\"id\":1,\"name\":\"Ann\",\"active\":true}\n]\n", string(putter.body))
}

func TestNew_S3Errors(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Options{Target: "s3://bucket-only", S3: &fakePutter{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, generr.ErrConfiguration)

	putter := &fakePutter{err: io.ErrUnexpectedEOF}
	w, err := New(context.Background(), Options{Target: "s3://b/k.csv", S3: putter})
	require.NoError(t, err)
	err = w.Write(context.Background(), testColumns, testRows())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "uploading to s3://b/k.csv")
}

func TestNew_HTTP(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	w, err := New(context.Background(), Options{Format: "jsonl", Target: srv.URL + "/ingest", HTTP: srv.Client()})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), testColumns, testRows()[:1]))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-ndjson", gotType)
	assert.Equal(t, "{\"id\":1,\"name\":\"Ann\",\"active\":true}\n", string(gotBody))
}

func TestNew_HTTPFailureStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	w, err := New(context.Background(), Options{Target: srv.URL, HTTP: srv.Client()})
	require.NoError(t, err)
	err = w.Write(context.Background(), testColumns, testRows())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "nope")
}

func TestNew_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	w, err := New(ctx, Options{Target: "sqlite::memory:", Table: "people"})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, w.Write(ctx, testColumns, testRows()))

	db := w.(*sqlWriter).db
	rows, err := db.QueryContext(ctx, `SELECT "id", "name", "active" FROM "people" ORDER BY "id"`)
	require.NoError(t, err)
	defer rows.Close()

	type record struct {
		id     int64
		name   *string
		active bool
	}
	var got []record
	for rows.Next() {
		var r record
		require.NoError(t, rows.Scan(&r.id, &r.name, &r.active))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].id)
	require.NotNil(t, got[0].name)
	assert.Equal(t, "Ann", *got[0].name)
	assert.True(t, got[0].active)
	assert.Nil(t, got[1].name)
	assert.False(t, got[1].active)
}

func TestNew_SQLErrors(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Options{Format: "sql", Target: "people.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, generr.ErrConfiguration)
	assert.Contains(t, err.Error(), "needs a database url")
}

func TestSQLWriter_Dialects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		dialect dialect
		create  string
		insert  string
	}{
		{
			dialect: dialectPostgres,
			create:  `CREATE TABLE IF NOT EXISTS "rows" ("id" NUMERIC, "name" TEXT, "active" BOOLEAN)`,
			insert:  `INSERT INTO "rows" ("id", "name", "active") VALUES ($1, $2, $3)`,
		},
		{
			dialect: dialectMySQL,
			create:  "CREATE TABLE IF NOT EXISTS `rows` (`id` DOUBLE, `name` TEXT, `active` BOOLEAN)",
			insert:  "INSERT INTO `rows` (`id`, `name`, `active`) VALUES (?, ?, ?)",
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.dialect), func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)

			mock.ExpectBegin()
			mock.ExpectExec(tc.create).WillReturnResult(sqlmock.NewResult(0, 0))
			prep := mock.ExpectPrepare(tc.insert)
			prep.ExpectExec().WithArgs(int64(1), "Ann", true).WillReturnResult(sqlmock.NewResult(1, 1))
			prep.ExpectExec().WithArgs(int64(2), nil, false).WillReturnResult(sqlmock.NewResult(2, 1))
			mock.ExpectCommit()
			mock.ExpectClose()

			w := newSQLWriter(db, tc.dialect, "")
			require.NoError(t, w.Write(context.Background(), testColumns, testRows()))
			require.NoError(t, w.Close())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLWriter_RollbackOnFailure(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	d := dialectPostgres
	mock.ExpectBegin()
	mock.ExpectExec(d.createTable("t", testColumns)).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(d.insert("t", testColumns))
	prep.ExpectExec().WillReturnError(io.ErrClosedPipe)
	mock.ExpectRollback()

	w := newSQLWriter(db, d, "t")
	err = w.Write(context.Background(), testColumns, testRows())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Contains(t, err.Error(), "inserting row 0")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	dsn, err := mysqlDSN("mysql://app:s3cret@db:3307/shop?sql_mode=ANSI_QUOTES")
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db:3307", cfg.Addr)
	assert.Equal(t, "shop", cfg.DBName)
	assert.Equal(t, "ANSI_QUOTES", cfg.Params["sql_mode"])

	dsn, err = mysqlDSN("mysql://root@localhost/test")
	require.NoError(t, err)
	cfg, err = mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3306", cfg.Addr)
}

func TestSQLitePath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/tmp/x.db", sqlitePath("sqlite:///tmp/x.db"))
	assert.Equal(t, "x.db", sqlitePath("sqlite://x.db"))
	assert.Equal(t, ":memory:", sqlitePath("sqlite::memory:"))
}
