package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vkgen/internal/registry/parser"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/testsupport"
)

func TestParser_Platforms(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	want := map[string]string{
		"xlib":  "VK_USE_PLATFORM_XLIB_KHR",
		"win32": "VK_USE_PLATFORM_WIN32_KHR",
	}
	if diff := cmp.Diff(want, reg.Platforms); diff != "" {
		t.Fatalf("platforms mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_TypesFilteredByAPI(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	header, ok := reg.Types["VK_HEADER_VERSION"]
	if !ok {
		t.Fatalf("expected VK_HEADER_VERSION type")
	}
	if got := registry.IterText(header.Elem); got[len(got)-1] != " 296" {
		t.Fatalf("expected vulkan header version, got %q", got)
	}

	alias := reg.Types["VkPipelineStageFlags2KHR"]
	if alias == nil || alias.Alias != "VkPipelineStageFlags2" || alias.Category != "bitmask" {
		t.Fatalf("unexpected alias type: %+v", alias)
	}

	bitmask := reg.Types["VkPipelineStageFlags2"]
	if bitmask == nil || bitmask.BitValues != "VkPipelineStageFlagBits2" {
		t.Fatalf("expected bitvalues on VkPipelineStageFlags2, got %+v", bitmask)
	}

	if got := reg.Types["VkCullModeFlags"].Requires; got != "VkCullModeFlagBits" {
		t.Fatalf("requires = %q", got)
	}

	names := reg.TypeNames()
	if names[0] != "vk_platform" {
		t.Fatalf("expected declaration order, first type %q", names[0])
	}
}

func TestParser_GroupsCollectExtendingEnums(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	group, ok := reg.Groups["VkStructureType"]
	if !ok {
		t.Fatalf("expected VkStructureType group")
	}

	var got []string
	for _, enum := range group.Enums {
		got = append(got, enum.Name+"@"+enum.ExtName)
	}
	want := []string{
		"VK_STRUCTURE_TYPE_APPLICATION_INFO@",
		"VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO@",
		"VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO@",
		"VK_STRUCTURE_TYPE_SWAPCHAIN_CREATE_INFO_KHR@VK_KHR_swapchain",
		"VK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR@VK_KHR_xlib_surface",
		"VK_STRUCTURE_TYPE_DISABLED_NV@VK_NV_disabled",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("group enums mismatch (-want +got):\n%s", diff)
	}

	xlib := reg.Enums["VK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR"]
	if xlib.ExtNumber != 5 || xlib.Extends != "VkStructureType" {
		t.Fatalf("unexpected injected enum: %+v", xlib)
	}
	if got := xlib.Value().Text; got != "1000004000" {
		t.Fatalf("injected value = %q", got)
	}

	if names := reg.GroupNames(); len(names) != len(reg.Groups) {
		t.Fatalf("GroupNames lists %d of %d groups", len(names), len(reg.Groups))
	}

	if !reg.Groups["VkPipelineStageFlagBits2"].IsBitmask() || reg.Groups["VkPipelineStageFlagBits2"].BitWidth != 64 {
		t.Fatalf("expected 64 bit bitmask group")
	}
}

func TestParser_ConstantsAndFeatureEnums(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	for _, name := range []string{"VK_WHOLE_SIZE", "VK_LUID_SIZE_KHR", "VK_KHR_SWAPCHAIN_SPEC_VERSION", "VK_KHR_SWAPCHAIN_EXTENSION_NAME"} {
		if _, ok := reg.Enums[name]; !ok {
			t.Fatalf("expected enum %s", name)
		}
	}
	if got := reg.Enums["VK_LUID_SIZE_KHR"].Alias; got != "VK_UUID_SIZE" {
		t.Fatalf("alias = %q", got)
	}
	if got := reg.Enums["VK_KHR_SWAPCHAIN_EXTENSION_NAME"].Value().Text; got != `"VK_KHR_swapchain"` {
		t.Fatalf("string constant = %q", got)
	}
}

func TestParser_CommandsInheritAliasPrototype(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	cmd, ok := reg.Commands["vkTrimCommandPoolKHR"]
	if !ok {
		t.Fatalf("expected alias command")
	}
	if cmd.Alias != "vkTrimCommandPool" {
		t.Fatalf("alias = %q", cmd.Alias)
	}
	if cmd.Proto == nil || len(cmd.Params) != 2 {
		t.Fatalf("expected inherited prototype, got proto=%v params=%d", cmd.Proto, len(cmd.Params))
	}

	create := reg.Commands["vkCreateInstance"]
	if got := registry.ChildText(create.Proto, "name"); got != "vkCreateInstance" {
		t.Fatalf("proto name = %q", got)
	}
	if len(create.Params) != 3 {
		t.Fatalf("params = %d", len(create.Params))
	}
}

func TestParser_Features(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureRegistry)

	var names []string
	for _, f := range reg.Features {
		names = append(names, f.Name)
	}
	want := []string{
		"VK_VERSION_1_0",
		"VK_VERSION_1_1",
		"VKSC_VERSION_1_0",
		"VK_KHR_swapchain",
		"VK_KHR_maintenance1",
		"VK_KHR_xlib_surface",
		"VK_NV_disabled",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("features mismatch (-want +got):\n%s", diff)
	}

	core, _ := reg.Feature("VK_VERSION_1_0")
	if diff := cmp.Diff([]string{"vulkan", "vulkansc"}, core.APIs); diff != "" {
		t.Fatalf("apis mismatch (-want +got):\n%s", diff)
	}
	if core.IsExtension() || core.Version != "1.0" {
		t.Fatalf("unexpected core feature: %+v", core)
	}

	xlib, _ := reg.Feature("VK_KHR_xlib_surface")
	if !xlib.IsExtension() || xlib.Number != 5 || xlib.Platform != "xlib" {
		t.Fatalf("unexpected extension: %+v", xlib)
	}
}

func TestParser_VideoRegistry(t *testing.T) {
	reg := testsupport.ParseFixture(t, testsupport.FixtureVideo)

	if len(reg.Features) != 2 {
		t.Fatalf("expected 2 video extensions, got %d", len(reg.Features))
	}
	if _, ok := reg.Groups["StdVideoH264ProfileIdc"]; !ok {
		t.Fatalf("expected video enum group")
	}
}

func TestParser_Errors(t *testing.T) {
	p := parser.New(registry.ParserOptions{})

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "malformed", raw: "<registry name=></registry>", want: "read"},
		{name: "wrong root", raw: "<spec/>", want: "missing <registry> root"},
		{name: "unnamed feature", raw: "<registry><feature api=\"vulkan\"/></registry>", want: "without name"},
		{name: "bad extension number", raw: "<registry><extensions><extension name=\"VK_X\" number=\"x\"/></extensions></registry>", want: "invalid number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := registry.MustNewDocument(registry.SourceFromFS(tc.name+".xml"), []byte(tc.raw))
			_, err := p.Parse(context.Background(), doc)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParser_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.New(registry.NewParserOptions()).Parse(ctx, testsupport.FixtureDocument(t, testsupport.FixtureRegistry))
	if err == nil {
		t.Fatalf("expected context error")
	}
}
