package cfg

type Cfg struct {
	// Storage configuration
	DataDir   string
	ConfigDir string

	// Application configuration
	Port              string
	BaseUrl           string
	ArchiveSize       int
	SchedulerInterval int
	Force             bool
	RepublishSource   bool
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
