package config

// Version is the version of dog itself. It is exposed to containers as
// DOG_VERSION and compared against minimum-version in config files.
const Version = 15

// MaxFileVersion is the newest dog-config-file-version this build understands.
const MaxFileVersion = 2

// FileName is the name of a project configuration file.
const FileName = "dog.config"

// UserFileName is the name of the per-user configuration file in the
// home directory.
const UserFileName = ".dog.config"

// Section names with a fixed meaning. Every other section of a config file
// is folded into "<section>_<key>" keys.
const (
	SectionMain        = "dog"
	SectionVolumes     = "volumes"
	SectionVolumesFrom = "volumes-from"
	SectionPorts       = "ports"
	SectionUSBDevices  = "usb-devices"
)

// Configuration keys.
const (
	KeyAdditionalRunParams      = "additional-docker-run-params"
	KeyArgs                     = "args"
	KeyAsRoot                   = "as-root"
	KeyAutoMount                = "auto-mount"
	KeyAutoRunVolumesFrom       = "auto-run-volumes-from"
	KeyComposeFile              = "docker-compose-file"
	KeyComposeMinimumVersion    = "docker-compose-minimum-version"
	KeyComposeService           = "docker-compose-service"
	KeyConfigFileVersion        = "dog-config-file-version"
	KeyConfigPath               = "dog-config-path"
	KeyConfigPathResolveSymlink = "dog-config-path-resolve-symlink"
	KeyCwd                      = "cwd"
	KeyDevice                   = "device"
	KeyDockerMinimumVersion     = "docker-minimum-version"
	KeyExposedVariables         = "exposed-dog-variables"
	KeyFullImage                = "full-image"
	KeyGID                      = "gid"
	KeyGroup                    = "group"
	KeyHome                     = "home"
	KeyHostname                 = "hostname"
	KeyImage                    = "image"
	KeyIncludeConfig            = "include-dog-config"
	KeyInit                     = "init"
	KeyInteractive              = "interactive"
	KeyMacAddress               = "mac-address"
	KeyMinimumVersion           = "minimum-version"
	KeyNetwork                  = "network"
	KeyPorts                    = "ports"
	KeyPull                     = "pull"
	KeyRegistry                 = "registry"
	KeySanityCheck              = "sanity-check"
	KeySanityCheckAlways        = "sanity-check-always"
	KeySudoOutsideDocker        = "sudo-outside-docker"
	KeyTerminal                 = "terminal"
	KeyUID                      = "uid"
	KeyUSBDevices               = "usb-devices"
	KeyUseComposePlugin         = "use-compose-plugin"
	KeyUsePodman                = "use-podman"
	KeyUser                     = "user"
	KeyUserEnvVars              = "user-env-vars"
	KeyUserEnvVarsIfSet         = "user-env-vars-if-set"
	KeyVerbose                  = "verbose"
	KeyVersion                  = "version"
	KeyVolumes                  = "volumes"
	KeyVolumesFrom              = "volumes-from"
	KeyVolumesFromSilent        = "volumes-from-silent"
	KeyWin32Cwd                 = "win32-cwd"
)

// Schema declares the kind of every key that is not a plain string.
// Keys absent from Schema (including all keys synthesized from user
// sections and by substitution) are strings.
var Schema = map[string]Kind{
	KeyArgs:             KindList,
	KeyDevice:           KindList,
	KeyExposedVariables: KindList,

	KeyAsRoot:                   KindBool,
	KeyAutoMount:                KindBool,
	KeyAutoRunVolumesFrom:       KindBool,
	KeyConfigPathResolveSymlink: KindBool,
	KeyInit:                     KindBool,
	KeyInteractive:              KindBool,
	KeyPull:                     KindBool,
	KeySanityCheck:              KindBool,
	KeySanityCheckAlways:        KindBool,
	KeySudoOutsideDocker:        KindBool,
	KeyTerminal:                 KindBool,
	KeyUseComposePlugin:         KindBool,
	KeyUsePodman:                KindBool,
	KeyVerbose:                  KindBool,
	KeyVolumesFromSilent:        KindBool,

	KeyConfigFileVersion: KindInt,
	KeyMinimumVersion:    KindInt,
	KeyUID:               KindInt,
	KeyGID:               KindInt,
	KeyVersion:           KindInt,

	KeyPorts:            KindMapping,
	KeyUSBDevices:       KindMapping,
	KeyUserEnvVars:      KindMapping,
	KeyUserEnvVarsIfSet: KindMapping,
	KeyVolumes:          KindMapping,
	KeyVolumesFrom:      KindMapping,
}

// KindOf returns the declared kind of key, KindString for undeclared keys.
func KindOf(key string) Kind {
	if k, ok := Schema[key]; ok {
		return k
	}
	return KindString
}

// Defaults returns the built-in default layer, the weakest of all layers.
func Defaults() Config {
	return FromMap(map[string]Value{
		KeyAdditionalRunParams: StringValue(""),
		KeyArgs:                ListValue("id"),
		KeyAsRoot:              BoolValue(false),
		KeyAutoMount:           BoolValue(true),
		KeyAutoRunVolumesFrom:  BoolValue(true),
		KeyCwd:                 StringValue("/home/nobody"),
		KeyExposedVariables: ListValue(
			KeyUID, KeyGID, KeyUser, KeyGroup, KeyHome, KeyAsRoot, KeyVersion,
		),
		KeyGID:               IntValue(1000),
		KeyGroup:             StringValue("nogroup"),
		KeyHome:              StringValue("/home/nobody"),
		KeyHostname:          StringValue("dog_docker"),
		KeyInit:              BoolValue(true),
		KeyInteractive:       BoolValue(true),
		KeyPorts:             MappingValue(Mapping{}),
		KeyPull:              BoolValue(false),
		KeySanityCheckAlways: BoolValue(false),
		KeySudoOutsideDocker: BoolValue(false),
		KeyTerminal:          BoolValue(false),
		KeyUID:               IntValue(1000),
		KeyUSBDevices:        MappingValue(Mapping{}),
		KeyUser:              StringValue("nobody"),
		KeyUserEnvVars:       MappingValue(Mapping{}),
		KeyUserEnvVarsIfSet:  MappingValue(Mapping{}),
		KeyUseComposePlugin:  BoolValue(false),
		KeyUsePodman:         BoolValue(false),
		KeyVerbose:           BoolValue(false),
		KeyVersion:           IntValue(Version),
		KeyVolumes:           MappingValue(Mapping{}),
		KeyVolumesFrom:       MappingValue(Mapping{}),
		KeyVolumesFromSilent: BoolValue(false),
	})
}
