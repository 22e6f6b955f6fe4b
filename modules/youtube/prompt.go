package youtube

// videoAnalysisPrompt - 스크립트 기반 비디오 분석 프롬프트
const videoAnalysisPrompt = `Analyze this video script and provide a comprehensive analysis in JSON format:

Video Title: {VIDEO_TITLE}
Video Description: {VIDEO_DESCRIPTION}
Script: {SCRIPT}

Please provide a JSON response with the following structure:
{
  "script": "Full extracted script text",
  "keyMoments": [
    {
      "timestamp": 10.5,
      "description": "Brief description of what happens at this moment",
      "thumbnail": "URL or description"
    }
  ],
  "detectedCharacters": [
    {
      "description": "Character description",
      "appearance": "Physical appearance details",
      "frequency": 5
    }
  ],
  "detectedBackgrounds": [
    {
      "description": "Background description",
      "style": "Visual style",
      "frequency": 3
    }
  ],
  "visualStyle": {
    "dominantColors": ["#color1", "#color2"],
    "composition": "Description of composition style",
    "lighting": "Description of lighting"
  },
  "suggestedStoryboard": {
    "scenes": [
      {
        "title": "Scene title",
        "scriptLine": "Key dialogue or action",
        "timestamp": 15.0,
        "thumbnail": "Description or URL",
        "framePosition": "first" | "middle" | "last"
      }
    ]
  }
}

Extract 4-8 key moments evenly distributed throughout the video. Identify main characters and backgrounds. Suggest 4-6 scenes for a storyboard.

IMPORTANT: For suggestedStoryboard.scenes:
- The FIRST scene (index 0) must have "framePosition": "first" - this is the opening shot
- The LAST scene (final index) must have "framePosition": "last" - this is the closing shot
- All middle scenes should have "framePosition": "middle"
- Frame position indicators help with Veo 3.1 prompt generation and narrative structure.`
