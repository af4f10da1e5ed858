package storage

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/config"
	"resume-parser-go/pkg/types"
)

func TestResumeObjectKey(t *testing.T) {
	ts := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)
	testCases := map[string]string{
		".pdf": "resumes/2024/05/abc.pdf",
		"DOCX": "resumes/2024/05/abc.docx",
		"":     "resumes/2024/05/abc",
		".TXT": "resumes/2024/05/abc.txt",
	}
	for ext, want := range testCases {
		assert.Equal(t, want, ResumeObjectKey("abc", ext, ts), ext)
	}
}

func TestRedisKeys(t *testing.T) {
	r := NewRedisWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), &config.RedisConfig{KeyPrefix: "staging:"})
	defer r.Close()

	assert.Equal(t, "staging:app:resume:parsed:file:d41d8cd98f00b204e9800998ecf8427e", r.FileKey("d41d8cd98f00b204e9800998ecf8427e"))
	assert.Equal(t, "staging:app:resume:parsed:text:abc", r.TextKey("abc"))
	assert.Equal(t, 24*time.Hour, r.TTL(), "未配置时使用默认有效期")
}

func TestRedisZeroTTLSkipsWrite(t *testing.T) {
	// 地址不可达，若真的发出 SET 会返回错误
	r := NewRedisWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), &config.RedisConfig{CacheTTL: "0s"})
	defer r.Close()

	assert.Equal(t, time.Duration(0), r.TTL())
	assert.NoError(t, r.SetParsed(context.Background(), r.TextKey("abc"), types.NewParsedResume()))
}

func TestNilStorageAccessors(t *testing.T) {
	var s *Storage
	assert.Nil(t, s.ObjectStorage())
	assert.Nil(t, s.ResultCache())
	assert.Nil(t, s.SubmissionStore())
	assert.Nil(t, s.EventPublisher())
	s.Close()

	empty, err := NewStorage(context.Background(), config.Default())
	require.NoError(t, err, "默认配置不启用任何组件")
	assert.Nil(t, empty.ResultCache())

	_, err = NewStorage(context.Background(), nil)
	assert.Error(t, err)
}

func TestResumeParsedEventJSON(t *testing.T) {
	e := ResumeParsedEvent{
		EventID:        "e1",
		EventType:      "resume.parsed",
		SubmissionUUID: "s1",
		OccurredAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:         "upload",
		SectionTypes:   []string{"Experience"},
		EntryCounts:    map[string]int{"Experience": 2},
		HasEmail:       true,
	}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2024-01-02T03:04:05Z", m["occurred_at"])
	assert.NotContains(t, m, "format", "空字段省略")
	assert.NotContains(t, string(data), "@", "事件中不包含个人信息")
}

// TestRedisCacheLive 需要真实 Redis，设置 REDIS_TEST_ADDR 时运行
func TestRedisCacheLive(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("未设置 REDIS_TEST_ADDR，跳过 Redis 集成测试")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, &config.RedisConfig{Address: addr, CacheTTL: "1m", KeyPrefix: "test:"})
	require.NoError(t, err)
	defer r.Close()

	key := r.TextKey("live-test")
	name := "Jane Doe"
	want := types.NewParsedResume()
	want.Name = &name
	require.NoError(t, r.SetParsed(ctx, key, want))

	got, err := r.GetParsed(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", *got.Name)

	_, err = r.GetParsed(ctx, r.TextKey("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, r.Client.Del(ctx, key).Err())
}
