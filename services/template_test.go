package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalechillz/go-singsing-sub006/models"
)

func TestRender(t *testing.T) {
	out, missing := Render("#{이름}님 #{ 투어명 } 안내 #{링크} #{링크}", map[string]string{
		"이름":  "김철수",
		"투어명": "제주 2박3일",
	})
	assert.Equal(t, "김철수님 제주 2박3일 안내 #{링크} #{링크}", out)
	assert.Equal(t, []string{"링크"}, missing)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"name", "url"}, Placeholders("#{name} #{url} #{name}"))
	assert.Nil(t, Placeholders("no placeholders"))
}

func TestDetectType(t *testing.T) {
	typ, err := DetectType(strings.Repeat("a", 90))
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeSMS, typ)

	// 45 Hangul syllables bill as 90 bytes.
	typ, err = DetectType(strings.Repeat("가", 45))
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeSMS, typ)

	typ, err = DetectType(strings.Repeat("가", 46))
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeLMS, typ)

	_, err = DetectType(strings.Repeat("가", 1001))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestVariablesFor(t *testing.T) {
	vars := VariablesFor(MessageContext{
		Participant:   &models.Participant{Name: "이영희", Phone: "01012345678"},
		Tour:          &models.Tour{Title: "부산 골프", StartDate: "2026-05-01", EndDate: "2026-05-03"},
		RoomNumber:    "301",
		BoardingPlace: "양재역",
		BoardingTime:  "06:30",
	}, map[string]string{"이름": "override"})

	assert.Equal(t, "override", vars["이름"])
	assert.Equal(t, "이영희", vars["name"])
	assert.Equal(t, "010-1234-5678", vars["전화번호"])
	assert.Equal(t, "부산 골프", vars["tour_name"])
	assert.Equal(t, "301", vars["객실"])
	assert.Equal(t, "06:30", vars["boarding_time"])
	_, hasURL := vars["링크"]
	assert.False(t, hasURL)
}
