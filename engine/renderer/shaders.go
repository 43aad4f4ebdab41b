package renderer

// panoramaShader renders the inward-facing sphere with the equirectangular
// panorama texture. During a scene transition the fragment stage blends the
// previous panorama into the current one with a radial wipe: the center of
// the view resolves first and the blend front expands outward as progress
// grows. The previous texture is sampled with a slight zoom so the outgoing
// scene appears to recede.
const panoramaShader = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Fade {
    progress: f32,
    enabled: f32,
    _pad: vec2<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;

@group(1) @binding(0) var tex_sampler: sampler;
@group(1) @binding(1) var current_tex: texture_2d<f32>;
@group(1) @binding(2) var previous_tex: texture_2d<f32>;
@group(1) @binding(3) var<uniform> fade: Fade;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(position, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let curr = textureSample(current_tex, tex_sampler, in.uv);
    if (fade.enabled < 0.5) {
        return curr;
    }
    let p = fade.progress;
    let uv_prev = (in.uv - vec2<f32>(0.5, 0.5)) / (1.0 + 0.4 * p) + vec2<f32>(0.5, 0.5);
    let prev = textureSample(previous_tex, tex_sampler, uv_prev);
    let d = distance(in.uv, vec2<f32>(0.5, 0.5));
    let w = clamp((p - d * 0.2) / 0.8, 0.0, 1.0);
    return mix(prev, curr, w);
}
`

// markerShader renders hotspot markers as solid translucent spheres. The
// highlight factor is premultiplied into the uniform color on the CPU side.
const markerShader = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Marker {
    model: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<uniform> marker: Marker;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * marker.model * vec4<f32>(position, 1.0);
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return marker.color;
}
`
