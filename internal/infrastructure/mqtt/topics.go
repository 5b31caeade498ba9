package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the voice service.
//
// All topics live under graylogic/voice so the service can share a broker
// with the rest of a Gray Logic site without ACL overlap.
const (
	// TopicPrefixVoice is the base for all voice service topics.
	TopicPrefixVoice = "graylogic/voice"

	// unknownSegment replaces empty topic segments.
	unknownSegment = "unknown"
)

// Topics provides builders for the voice service MQTT topics.
//
//	topic := mqtt.Topics{}.DirectiveOutcome("Alexa.PowerController", "TurnOn")
//	// Returns: "graylogic/voice/directive/Alexa.PowerController/TurnOn"
type Topics struct{}

// Status returns the retained service status topic (online/offline + LWT).
//
// Example: graylogic/voice/status
func (Topics) Status() string {
	return TopicPrefixVoice + "/status"
}

// DirectiveOutcome returns the topic an outcome of the given directive is
// published on. Segments are sanitised so a hostile namespace cannot inject
// wildcards or extra levels.
//
// Example: graylogic/voice/directive/Alexa/Discover
func (Topics) DirectiveOutcome(namespace, name string) string {
	return fmt.Sprintf("%s/directive/%s/%s", TopicPrefixVoice, segment(namespace), segment(name))
}

// CatalogReload returns the topic that triggers an appliance catalog reload.
//
// Example: graylogic/voice/catalog/reload
func (Topics) CatalogReload() string {
	return TopicPrefixVoice + "/catalog/reload"
}

// CatalogReloaded returns the topic reload results are published on.
//
// Example: graylogic/voice/catalog/reloaded
func (Topics) CatalogReloaded() string {
	return TopicPrefixVoice + "/catalog/reloaded"
}

// segment makes s safe to use as a single topic level.
func segment(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return unknownSegment
	}
	return s
}
