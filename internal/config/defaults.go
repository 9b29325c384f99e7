package config

const (
	defaultWorkDir        = "~/.local/share/glyphpress/work"
	defaultLogDir         = "~/.local/share/glyphpress/logs"
	defaultLockFile       = "~/.local/share/glyphpress/glyphpress.lock"
	defaultRequestTimeout = 300
	defaultBuildCommand   = "make"
	defaultBuildManifest  = "requirements.txt"
	defaultBuildTimeout   = 3600
	defaultRemote         = "origin"
	defaultBranch         = "master"
	defaultAuthorName     = "github-actions[bot]"
	defaultAuthorEmail    = "41898282+github-actions[bot]@users.noreply.github.com"
	defaultCommitMessage  = "Update"
	defaultTagSuffix      = "-beta"
	defaultMaxGlyphs      = 150
	defaultNotifyTimeout  = 10
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with the BabelStone Han repository
// defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			LockFile: defaultLockFile,
		},
		Upstream: Upstream{
			RequestTimeout: defaultRequestTimeout,
			Sources: []Source{
				{
					Name:   "babelstone-han-ufo",
					URL:    "https://www.babelstone.co.uk/Fonts/Download/BabelStoneHanUFO.zip",
					Dest:   ".",
					Unpack: true,
				},
				{
					Name: "babelstone-han-license",
					URL:  "https://www.babelstone.co.uk/Fonts/BabelStoneHanLicense.txt",
					Dest: "LICENSE",
				},
			},
		},
		Build: Build{
			Command:  defaultBuildCommand,
			Args:     []string{"ttf"},
			Manifest: defaultBuildManifest,
			Timeout:  defaultBuildTimeout,
		},
		Git: Git{
			Remote:        defaultRemote,
			Branch:        defaultBranch,
			AuthorName:    defaultAuthorName,
			AuthorEmail:   defaultAuthorEmail,
			CommitMessage: defaultCommitMessage,
			TagSuffix:     defaultTagSuffix,
		},
		GitHub: GitHub{
			Owner: "babelstone",
			Repo:  "babelstonehan-ufo",
		},
		Release: Release{
			Artifacts: []string{
				"fonts/BabelStoneHanBasic.ttf",
				"fonts/BabelStoneHanExtra.ttf",
				"fonts/BabelStoneHanPUA.ttf",
				"LICENSE",
			},
			Prerelease: true,
		},
		Changelog: Changelog{
			UFODirs: []string{
				"BabelStoneHanBasic.ttf.ufo",
				"BabelStoneHanExtra.ttf.ufo",
				"BabelStoneHanPUA.ttf.ufo",
			},
			IncludeGlyphs: true,
			MaxGlyphs:     defaultMaxGlyphs,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
