package youtube

// VideoMetadata - 비디오 메타데이터 응답
type VideoMetadata struct {
	ID             string   `json:"id"`
	VideoID        string   `json:"videoId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Thumbnail      string   `json:"thumbnail"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	ChannelName    string   `json:"channelName"`
	ChannelTitle   string   `json:"channelTitle"`
	ViewCount      int64    `json:"viewCount"`
	LikeCount      int64    `json:"likeCount"`
	CommentCount   int64    `json:"commentCount"`
	Duration       int64    `json:"duration"`
	DurationRaw    string   `json:"durationRaw"`
	URL            string   `json:"url"`
	VideoStyle     string   `json:"videoStyle,omitempty"`
	CategoryID     string   `json:"categoryId,omitempty"`
	Tags           []string `json:"tags"`
	EngagementRate float64  `json:"engagementRate"`
}

// CaptionTrack - 자막 트랙 정보
type CaptionTrack struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

// VideoCategory - 검색 필터용 카테고리
type VideoCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VideoStyle - 검색 스타일 프리셋
type VideoStyle struct {
	Style string `json:"style"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// styleParams - 스타일을 YouTube API 파라미터로 매핑
type styleParams struct {
	videoDuration string
	queryModifier string
}

var styleMap = map[string]styleParams{
	"shorts":        {videoDuration: "short"},
	"long-form":     {videoDuration: "long"},
	"tutorial":      {queryModifier: "tutorial"},
	"review":        {queryModifier: "review"},
	"vlog":          {queryModifier: "vlog"},
	"music":         {queryModifier: "music video"},
	"gaming":        {queryModifier: "gaming"},
	"educational":   {queryModifier: "educational"},
	"entertainment": {queryModifier: "entertainment"},
}

// videoStyles - /video-styles 응답 목록
var videoStyles = []VideoStyle{
	{Style: "shorts", Label: "Shorts", Icon: "🎬"},
	{Style: "long-form", Label: "Long Form", Icon: "📺"},
	{Style: "tutorial", Label: "Tutorial", Icon: "📚"},
	{Style: "review", Label: "Review", Icon: "⭐"},
	{Style: "vlog", Label: "Vlog", Icon: "📹"},
	{Style: "music", Label: "Music", Icon: "🎵"},
	{Style: "gaming", Label: "Gaming", Icon: "🎮"},
	{Style: "educational", Label: "Educational", Icon: "🎓"},
	{Style: "entertainment", Label: "Entertainment", Icon: "🎭"},
}
