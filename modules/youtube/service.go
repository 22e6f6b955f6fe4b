package youtube

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"brandframe-server/modules/common/config"
	"brandframe-server/modules/common/gemini"
)

// Service - YouTube Data API v3 래퍼 + 스크립트 분석
type Service struct {
	client    *yt.Service
	cache     *cache.Cache
	gen       gemini.Generator
	textModel string
}

// NewService - YOUTUBE_API_KEY 미설정 시 nil 반환 (라우트 비활성)
func NewService(ctx context.Context, gen gemini.Generator) *Service {
	cfg := config.GetConfig()
	if cfg.YouTubeAPIKey == "" {
		log.Println("⚠️ YOUTUBE_API_KEY not set, youtube module disabled")
		return nil
	}

	client, err := yt.NewService(ctx, option.WithAPIKey(cfg.YouTubeAPIKey))
	if err != nil {
		log.Printf("❌ Failed to create YouTube service: %v", err)
		return nil
	}

	return &Service{
		client:    client,
		cache:     cache.New(10*time.Minute, 5*time.Minute),
		gen:       gen,
		textModel: cfg.GeminiTextModel,
	}
}

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISODuration - ISO 8601 duration을 초로 변환
func parseISODuration(duration string) int64 {
	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return 0
	}
	toInt := func(s string) int64 {
		if s == "" {
			return 0
		}
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}
	return toInt(match[1])*3600 + toInt(match[2])*60 + toInt(match[3])
}

func toMetadata(video *yt.Video, style string) VideoMetadata {
	thumbnail := ""
	if video.Snippet.Thumbnails != nil {
		if video.Snippet.Thumbnails.High != nil {
			thumbnail = video.Snippet.Thumbnails.High.Url
		} else if video.Snippet.Thumbnails.Default != nil {
			thumbnail = video.Snippet.Thumbnails.Default.Url
		}
	}

	// statistics/contentDetails는 API가 생략할 수 있음
	stats := video.Statistics
	if stats == nil {
		stats = &yt.VideoStatistics{}
	}
	details := video.ContentDetails
	if details == nil {
		details = &yt.VideoContentDetails{}
	}

	viewCount := int64(stats.ViewCount)
	likeCount := int64(stats.LikeCount)
	commentCount := int64(stats.CommentCount)

	engagementRate := 0.0
	if viewCount > 0 {
		engagementRate = float64(likeCount+commentCount) / float64(viewCount) * 100
		engagementRate = float64(int(engagementRate*100)) / 100
	}

	return VideoMetadata{
		ID:             video.Id,
		VideoID:        video.Id,
		Title:          video.Snippet.Title,
		Description:    video.Snippet.Description,
		Thumbnail:      thumbnail,
		ThumbnailURL:   thumbnail,
		ChannelName:    video.Snippet.ChannelTitle,
		ChannelTitle:   video.Snippet.ChannelTitle,
		ViewCount:      viewCount,
		LikeCount:      likeCount,
		CommentCount:   commentCount,
		Duration:       parseISODuration(details.Duration),
		DurationRaw:    details.Duration,
		URL:            "https://www.youtube.com/watch?v=" + video.Id,
		VideoStyle:     style,
		CategoryID:     video.Snippet.CategoryId,
		Tags:           video.Snippet.Tags,
		EngagementRate: engagementRate,
	}
}

// GetVideoMetadata - 비디오 1개의 메타데이터 조회
func (s *Service) GetVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	cacheKey := "video:" + videoID
	if cached, found := s.cache.Get(cacheKey); found {
		meta := cached.(VideoMetadata)
		return &meta, nil
	}

	resp, err := s.client.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video not found: %s", videoID)
	}

	meta := toMetadata(resp.Items[0], "")
	s.cache.Set(cacheKey, meta, cache.DefaultExpiration)
	return &meta, nil
}

// ListCaptionTracks - 비디오의 자막 트랙 목록
func (s *Service) ListCaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := s.client.Captions.
		List([]string{"snippet"}, videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube captions.list failed: %w", err)
	}

	tracks := make([]CaptionTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		tracks = append(tracks, CaptionTrack{
			ID:       item.Id,
			Language: item.Snippet.Language,
			Name:     item.Snippet.Name,
			Kind:     item.Snippet.TrackKind,
		})
	}
	return tracks, nil
}

// SearchOptions - 스타일 기반 검색 옵션
type SearchOptions struct {
	Style      string
	Query      string
	Limit      int64
	SortBy     string
	CategoryID string
}

// SearchByStyle - 스타일 프리셋 기반 비디오 검색 + 참여율 계산
func (s *Service) SearchByStyle(ctx context.Context, opts SearchOptions) ([]VideoMetadata, error) {
	if opts.Style == "" {
		opts.Style = "shorts"
	}
	if opts.Limit <= 0 || opts.Limit > 50 {
		opts.Limit = 20
	}

	params := styleMap[opts.Style]
	searchQuery := strings.TrimSpace(opts.Query)
	if params.queryModifier != "" {
		if searchQuery != "" {
			searchQuery = searchQuery + " " + params.queryModifier
		} else {
			searchQuery = params.queryModifier
		}
	} else if opts.Style == "shorts" && searchQuery == "" {
		searchQuery = "shorts"
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%d:%s:%s", opts.Style, searchQuery, opts.Limit, opts.SortBy, opts.CategoryID)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]VideoMetadata), nil
	}

	call := s.client.Search.
		List([]string{"snippet"}).
		Type("video").
		MaxResults(opts.Limit).
		Q(searchQuery).
		Context(ctx)

	if params.videoDuration != "" {
		call = call.VideoDuration(params.videoDuration)
	}
	if opts.CategoryID != "" {
		call = call.VideoCategoryId(opts.CategoryID)
	}
	switch opts.SortBy {
	case "date":
		call = call.Order("date")
	case "viewCount":
		call = call.Order("viewCount")
	case "rating":
		call = call.Order("rating")
	}

	searchResp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search.list failed: %w", err)
	}
	if len(searchResp.Items) == 0 {
		return []VideoMetadata{}, nil
	}

	videoIDs := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}

	videosResp, err := s.client.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list failed: %w", err)
	}

	videos := make([]VideoMetadata, 0, len(videosResp.Items))
	for _, video := range videosResp.Items {
		videos = append(videos, toMetadata(video, opts.Style))
	}

	switch opts.SortBy {
	case "engagement":
		sort.Slice(videos, func(i, j int) bool { return videos[i].EngagementRate > videos[j].EngagementRate })
	case "likes":
		sort.Slice(videos, func(i, j int) bool { return videos[i].LikeCount > videos[j].LikeCount })
	case "views":
		sort.Slice(videos, func(i, j int) bool { return videos[i].ViewCount > videos[j].ViewCount })
	}

	s.cache.Set(cacheKey, videos, cache.DefaultExpiration)
	return videos, nil
}

// ListCategories - assignable 카테고리 목록
func (s *Service) ListCategories(ctx context.Context, regionCode string) ([]VideoCategory, error) {
	if regionCode == "" {
		regionCode = "US"
	}

	cacheKey := "categories:" + regionCode
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]VideoCategory), nil
	}

	resp, err := s.client.VideoCategories.
		List([]string{"snippet"}).
		RegionCode(regionCode).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videoCategories.list failed: %w", err)
	}

	categories := make([]VideoCategory, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet != nil && item.Snippet.Assignable {
			categories = append(categories, VideoCategory{
				ID:    item.Id,
				Title: item.Snippet.Title,
			})
		}
	}

	s.cache.Set(cacheKey, categories, cache.DefaultExpiration)
	return categories, nil
}

// Styles - 지원하는 스타일 프리셋 목록
func (s *Service) Styles() []VideoStyle {
	return videoStyles
}
