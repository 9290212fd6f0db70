package config

const (
	defaultConfigPath            = "~/.config/glossa/config.toml"
	defaultRunsDir               = "~/.local/share/glossa/runs"
	defaultLogDir                = "~/.local/share/glossa/logs"
	defaultLexiconDir            = "~/.local/share/glossa/lexicon"
	defaultAPIBind               = "127.0.0.1:8000"
	defaultYtDlpBinary           = "yt-dlp"
	defaultMaxDurationSec        = 1200
	defaultCaptionTimeoutSeconds = 20
	defaultCaptionUserAgent      = "Mozilla/5.0"
	defaultWhisperBinary         = "whisper"
	defaultWhisperModel          = "base"
	defaultFFmpegBinary          = "ffmpeg"
	defaultGlosser               = "simple"
	defaultGlossHelperCommand    = "glossa-gloss"
	defaultPoseConcatCommand     = "glossa-pose-concat"
	defaultRenderCommand         = "glossa-render"
	defaultRenderWidth           = 640
	defaultRenderHeight          = 480
	defaultClassifierCommand     = "glossa-classify"
	defaultClassifierModelPath   = "~/.local/share/glossa/models/asl_best.keras"
	defaultClassifierImageSize   = 160
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultTracingExporter       = "none"
	defaultTracingSampleRatio    = 1.0
)

var defaultClassNames = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RunsDir:    defaultRunsDir,
			LogDir:     defaultLogDir,
			LexiconDir: defaultLexiconDir,
			APIBind:    defaultAPIBind,
		},
		YouTube: YouTube{
			YtDlpBinary:           defaultYtDlpBinary,
			MaxDurationSec:        defaultMaxDurationSec,
			PreferCaptions:        true,
			CaptionTimeoutSeconds: defaultCaptionTimeoutSeconds,
			UserAgent:             defaultCaptionUserAgent,
		},
		Transcription: Transcription{
			WhisperBinary: defaultWhisperBinary,
			Model:         defaultWhisperModel,
		},
		Media: Media{
			FFmpegBinary: defaultFFmpegBinary,
		},
		Gloss: Gloss{
			DefaultGlosser: defaultGlosser,
			HelperCommand:  defaultGlossHelperCommand,
		},
		Pose: Pose{
			ConcatCommand:  defaultPoseConcatCommand,
			Fingerspelling: true,
		},
		Render: Render{
			Command: defaultRenderCommand,
			Width:   defaultRenderWidth,
			Height:  defaultRenderHeight,
		},
		Classifier: Classifier{
			Command:    defaultClassifierCommand,
			ModelPath:  defaultClassifierModelPath,
			ImageSize:  defaultClassifierImageSize,
			ClassNames: append([]string(nil), defaultClassNames...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Tracing: Tracing{
			Exporter:    defaultTracingExporter,
			SampleRatio: defaultTracingSampleRatio,
		},
	}
}
