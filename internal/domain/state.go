package domain

// PipelineState tracks a generation run through its stages.
type PipelineState string

const (
	StateReceived          PipelineState = "RECEIVED"
	StateScriptDrafted     PipelineState = "SCRIPT_DRAFTED"
	StateMediaSynthesizing PipelineState = "MEDIA_SYNTHESIZING"
	StateVideoComposed     PipelineState = "VIDEO_COMPOSED"
	StateThumbnailDesigned PipelineState = "THUMBNAIL_DESIGNED"
	StatePackaged          PipelineState = "PACKAGED"
	StateComplete          PipelineState = "COMPLETE"
	StateFailed            PipelineState = "FAILED"
)
